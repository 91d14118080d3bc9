package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"EmpireBuilder/internal/empire/entity"
	"EmpireBuilder/internal/empire/errs"
	"EmpireBuilder/internal/empire/infra/persistence/mapper"
	"EmpireBuilder/internal/empire/infra/persistence/model"
	"EmpireBuilder/modules/kit/errx"
)

const defaultEmpireCollectionName = "empire"

const (
	OpGetEmpire    = "repo.empire.Get"
	OpAllEmpires   = "repo.empire.All"
	OpCreateEmpire = "repo.empire.Create"
	OpUpdateEmpire = "repo.empire.Update"
	OpEnsureIndex  = "repo.empire.EnsureIndexes"
)

var errNilCollection = errors.New("mongodb empire collection is nil")

type EmpireRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewEmpireRepo(client *mongo.Client, db *mongo.Database) *EmpireRepo {
	if db == nil {
		return &EmpireRepo{client: client}
	}
	return &EmpireRepo{client: client, coll: db.Collection(defaultEmpireCollectionName)}
}

// EnsureIndexes AI 调度按 is_ai 过滤。
func (r *EmpireRepo) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errs.Wrap(OpEnsureIndex, errs.KindInfra, errNilCollection, nil)
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "is_ai", Value: 1}}})
	return errs.Wrap(OpEnsureIndex, errs.KindInfra, err, nil)
}

func (r *EmpireRepo) Get(ctx context.Context, id entity.EmpireID) (*entity.Empire, error) {
	if r == nil || r.coll == nil {
		return nil, errs.Wrap(OpGetEmpire, errs.KindInfra, errNilCollection, nil)
	}
	var doc model.EmpireDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	switch {
	case err == nil:
		return mapper.DocToEmpire(doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, entity.ErrEmpireNotFound
	default:
		return nil, errs.Wrap(OpGetEmpire, errs.KindInfra, err, map[string]any{"empire_id": string(id)})
	}
}

func (r *EmpireRepo) All(ctx context.Context) ([]*entity.Empire, error) {
	if r == nil || r.coll == nil {
		return nil, errs.Wrap(OpAllEmpires, errs.KindInfra, errNilCollection, nil)
	}
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.Wrap(OpAllEmpires, errs.KindInfra, err, nil)
	}
	var docs []model.EmpireDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(OpAllEmpires, errs.KindInfra, err, nil)
	}
	out := make([]*entity.Empire, 0, len(docs))
	for _, d := range docs {
		out = append(out, mapper.DocToEmpire(d))
	}
	return out, nil
}

func (r *EmpireRepo) Create(ctx context.Context, e *entity.Empire) error {
	if r == nil || r.coll == nil {
		return errs.Wrap(OpCreateEmpire, errs.KindInfra, errNilCollection, nil)
	}
	_, err := r.coll.InsertOne(ctx, mapper.EmpireToDoc(e))
	return errs.Wrap(OpCreateEmpire, errs.KindInfra, err, map[string]any{"empire_id": string(e.ID)})
}

// Update 以 {_id, version} 为条件整体替换。多个帝国放在同一个事务里提交，
// 任一版本不匹配整个事务回滚。
func (r *EmpireRepo) Update(ctx context.Context, empires ...*entity.Empire) error {
	if r == nil || r.coll == nil {
		return errs.Wrap(OpUpdateEmpire, errs.KindInfra, errNilCollection, nil)
	}
	if len(empires) == 0 {
		return nil
	}
	if len(empires) == 1 || r.client == nil {
		if len(empires) > 1 {
			return errs.Wrap(OpUpdateEmpire, errs.KindInfra, errors.New("multi-document update needs a client session"), nil)
		}
		if err := r.replace(ctx, empires[0]); err != nil {
			return err
		}
		empires[0].Version++
		return nil
	}

	sess, err := r.client.StartSession()
	if err != nil {
		return errs.Wrap(OpUpdateEmpire, errs.KindInfra, err, nil)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		for _, e := range empires {
			if err := r.replace(ctx, e); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		var x *errx.Error
		if errors.As(err, &x) || errors.Is(err, entity.ErrEmpireNotFound) {
			return err
		}
		return errs.Wrap(OpUpdateEmpire, errs.KindInfra, err, nil)
	}
	for _, e := range empires {
		e.Version++
	}
	return nil
}

func (r *EmpireRepo) replace(ctx context.Context, e *entity.Empire) error {
	doc := mapper.EmpireToDoc(e)
	doc.Version = e.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID, "version": e.Version}, doc, options.Replace())
	if err != nil {
		return errs.Wrap(OpUpdateEmpire, errs.KindInfra, err, map[string]any{"empire_id": doc.ID})
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": doc.ID})
	if err != nil {
		return errs.Wrap(OpUpdateEmpire, errs.KindInfra, err, map[string]any{"empire_id": doc.ID})
	}
	if n == 0 {
		return entity.ErrEmpireNotFound
	}
	return errx.ErrConflict.WithDataMap(map[string]any{"empire_id": doc.ID, "have": e.Version})
}
