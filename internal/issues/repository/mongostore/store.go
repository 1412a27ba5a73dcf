// Package mongostore is the MongoDB ProjectStore: one document per project
// with the issues embedded as an array.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/issuetracker/issue-tracker-backend/internal/issues/domain"
)

type projectDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Project string             `bson:"project"`
	Issues  []issueDoc         `bson:"issues"`
}

type issueDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	IssueTitle string             `bson:"issue_title"`
	IssueText  string             `bson:"issue_text"`
	CreatedOn  string             `bson:"created_on"`
	UpdatedOn  string             `bson:"updated_on"`
	CreatedBy  string             `bson:"created_by"`
	AssignedTo string             `bson:"assigned_to"`
	Open       bool               `bson:"open"`
	StatusText string             `bson:"status_text"`
}

// Store implements the project store on a mongo collection.
type Store struct {
	coll *mongo.Collection
}

// NewStore creates a new Store over coll
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// EnsureIndexes creates the unique index on the project name, which
// keeps concurrent first inserts from creating two documents.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create project index: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, project string) (*domain.Project, error) {
	var doc projectDoc
	err := s.coll.FindOne(ctx, bson.M{"project": project}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) Append(ctx context.Context, project string, issue domain.Issue) (*domain.Issue, error) {
	doc := fromDomain(issue)
	doc.ID = primitive.NewObjectID()

	filter := bson.M{"project": project}
	update := bson.M{"$push": bson.M{"issues": doc}}
	opts := options.Update().SetUpsert(true)

	_, err := s.coll.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// lost the race to create the project; it exists now
		_, err = s.coll.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append issue: %w", err)
	}

	out := doc.toDomain()
	return &out, nil
}

func (s *Store) Update(ctx context.Context, project, id string, patch domain.IssuePatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIssueNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"project": project, "issues._id": oid},
		bson.M{"$set": setFields(patch)},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"el._id": oid}},
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, project, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIssueNotFound
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"project": project, "issues._id": oid},
		bson.M{"$pull": bson.M{"issues": bson.M{"_id": oid}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove issue: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// setFields maps a patch onto positional $set paths for the array
// element bound to the "el" filter.
func setFields(p domain.IssuePatch) bson.M {
	const el = "issues.$[el]."
	set := bson.M{el + "updated_on": p.UpdatedOn}

	strs := map[string]*string{
		"issue_title": p.IssueTitle,
		"issue_text":  p.IssueText,
		"created_by":  p.CreatedBy,
		"assigned_to": p.AssignedTo,
		"status_text": p.StatusText,
		"created_on":  p.CreatedOn,
	}
	for name, v := range strs {
		if v != nil {
			set[el+name] = *v
		}
	}
	if p.Open != nil {
		set[el+"open"] = *p.Open
	}
	return set
}

func (d projectDoc) toDomain() *domain.Project {
	p := &domain.Project{
		Name:   d.Project,
		Issues: make([]domain.Issue, 0, len(d.Issues)),
	}
	for _, is := range d.Issues {
		p.Issues = append(p.Issues, is.toDomain())
	}
	return p
}

func (d issueDoc) toDomain() domain.Issue {
	return domain.Issue{
		ID:         d.ID.Hex(),
		IssueTitle: d.IssueTitle,
		IssueText:  d.IssueText,
		CreatedOn:  d.CreatedOn,
		UpdatedOn:  d.UpdatedOn,
		CreatedBy:  d.CreatedBy,
		AssignedTo: d.AssignedTo,
		Open:       d.Open,
		StatusText: d.StatusText,
	}
}

func fromDomain(is domain.Issue) issueDoc {
	return issueDoc{
		IssueTitle: is.IssueTitle,
		IssueText:  is.IssueText,
		CreatedOn:  is.CreatedOn,
		UpdatedOn:  is.UpdatedOn,
		CreatedBy:  is.CreatedBy,
		AssignedTo: is.AssignedTo,
		Open:       is.Open,
		StatusText: is.StatusText,
	}
}
