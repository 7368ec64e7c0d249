package infrastructure

import (
	"context"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection is an in-memory Collection understanding equality, $in and $set.
// Aggregations are answered by aggregateFunc.
type fakeCollection struct {
	docs        []bson.M
	uniqueField string
	err         error

	aggregateFunc func(pipeline bson.A) ([]any, error)

	calls        []string
	lastFilter   bson.M
	lastFindOpts *options.FindOptions
	pipelines    []bson.A
}

func newFakeCollection(docs ...any) *fakeCollection {
	fc := &fakeCollection{}
	for _, doc := range docs {
		fc.docs = append(fc.docs, toM(doc))
	}
	return fc
}

func toM(v any) bson.M {
	if v == nil {
		return bson.M{}
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	return m
}

func asMap(v any) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return bson.M(t), true
	case bson.D:
		return t.Map(), true
	}
	return nil, false
}

func asSlice(v any) []any {
	switch t := v.(type) {
	case bson.A:
		return t
	case []any:
		return t
	}
	return []any{v}
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		if key == "$text" {
			continue
		}
		got := doc[key]
		if op, ok := asMap(want); ok {
			if in, ok := op["$in"]; ok {
				if !intersects(asSlice(got), asSlice(in)) {
					return false
				}
				continue
			}
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func intersects(values, candidates []any) bool {
	for _, v := range values {
		for _, c := range candidates {
			if reflect.DeepEqual(v, c) {
				return true
			}
		}
	}
	return false
}

func (fc *fakeCollection) filter(filter any) []bson.M {
	f := toM(filter)
	fc.lastFilter = f
	var res []bson.M
	for _, doc := range fc.docs {
		if matches(doc, f) {
			res = append(res, doc)
		}
	}
	return res
}

func (fc *fakeCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	fc.calls = append(fc.calls, "Find")
	if fc.err != nil {
		return nil, fc.err
	}
	found := fc.filter(filter)
	opt := options.MergeFindOptions(opts...)
	fc.lastFindOpts = opt
	if opt.Skip != nil {
		if int(*opt.Skip) >= len(found) {
			found = nil
		} else {
			found = found[*opt.Skip:]
		}
	}
	if opt.Limit != nil && *opt.Limit > 0 && int(*opt.Limit) < len(found) {
		found = found[:*opt.Limit]
	}
	docs := make([]any, 0, len(found))
	for _, doc := range found {
		docs = append(docs, project(doc, opt.Projection))
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

// project applies an inclusion projection such as {title: 1}. Other projections are ignored
func project(doc bson.M, projection any) bson.M {
	fields, ok := asMap(projection)
	if !ok {
		return doc
	}
	projected := bson.M{"_id": doc["_id"]}
	for field, value := range fields {
		switch v := value.(type) {
		case int, int32, int64:
			if reflect.ValueOf(v).Int() != 1 {
				return doc
			}
			if fieldValue, ok := doc[field]; ok {
				projected[field] = fieldValue
			}
		default:
			return doc
		}
	}
	return projected
}

func (fc *fakeCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
	fc.calls = append(fc.calls, "FindOne")
	if fc.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, fc.err, nil)
	}
	found := fc.filter(filter)
	if len(found) == 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(found[0], nil, nil)
}

func (fc *fakeCollection) InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	fc.calls = append(fc.calls, "InsertOne")
	if fc.err != nil {
		return nil, fc.err
	}
	doc := toM(document)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	if fc.uniqueField != "" {
		for _, existing := range fc.docs {
			if reflect.DeepEqual(existing[fc.uniqueField], doc[fc.uniqueField]) {
				return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
			}
		}
	}
	fc.docs = append(fc.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc["_id"]}, nil
}

func (fc *fakeCollection) UpdateOne(ctx context.Context, filter, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	fc.calls = append(fc.calls, "UpdateOne")
	if fc.err != nil {
		return nil, fc.err
	}
	set, _ := asMap(toM(update)["$set"])
	found := fc.filter(filter)
	if len(found) == 0 {
		opt := options.MergeUpdateOptions(opts...)
		if opt.Upsert != nil && *opt.Upsert {
			doc := bson.M{"_id": primitive.NewObjectID()}
			for k, v := range fc.lastFilter {
				doc[k] = v
			}
			for k, v := range set {
				doc[k] = v
			}
			fc.docs = append(fc.docs, doc)
			return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: doc["_id"]}, nil
		}
		return &mongo.UpdateResult{}, nil
	}
	doc := found[0]
	modified := int64(0)
	for k, v := range set {
		if !reflect.DeepEqual(doc[k], v) {
			modified = 1
		}
		doc[k] = v
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: modified}, nil
}

func (fc *fakeCollection) DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	fc.calls = append(fc.calls, "DeleteOne")
	if fc.err != nil {
		return nil, fc.err
	}
	f := toM(filter)
	fc.lastFilter = f
	for i, doc := range fc.docs {
		if matches(doc, f) {
			fc.docs = append(fc.docs[:i], fc.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (fc *fakeCollection) Aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	fc.calls = append(fc.calls, "Aggregate")
	if fc.err != nil {
		return nil, fc.err
	}
	p, _ := pipeline.(bson.A)
	fc.pipelines = append(fc.pipelines, p)
	if fc.aggregateFunc == nil {
		return mongo.NewCursorFromDocuments(nil, nil, nil)
	}
	docs, err := fc.aggregateFunc(p)
	if err != nil {
		return nil, err
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (fc *fakeCollection) CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error) {
	fc.calls = append(fc.calls, "CountDocuments")
	if fc.err != nil {
		return 0, fc.err
	}
	return int64(len(fc.filter(filter))), nil
}

// fakeDB answers every command with the same document
type fakeDB struct {
	reply any
	err   error
}

func (f fakeDB) RunCommand(ctx context.Context, runCommand any, opts ...*options.RunCmdOptions) *mongo.SingleResult {
	if f.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.err, nil)
	}
	return mongo.NewSingleResultFromDocument(f.reply, nil, nil)
}
