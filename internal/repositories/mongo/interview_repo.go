package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/prepmate/prepmate/internal/models"
	"github.com/prepmate/prepmate/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InterviewRepository interface {
	Create(ctx context.Context, iv *models.Interview) error
	GetByInterviewID(ctx context.Context, interviewID string) (*models.Interview, error)
	AppendTurns(ctx context.Context, interviewID string, turns ...models.Turn) error
	// SetPlanIfEmpty writes the question plan only when both plan sets are
	// still empty. It reports whether this call won the write; a false
	// return means another request planned first and the caller should
	// re-read the document.
	SetPlanIfEmpty(ctx context.Context, interviewID string, coding, resume []int) (bool, error)
	// SetFeedbackIfEmpty persists the evaluation only when none is stored
	// yet, reporting whether this call won the write.
	SetFeedbackIfEmpty(ctx context.Context, interviewID string, ev *models.Evaluation) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interviews")}
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now().UTC()
	}
	if iv.Transcript == nil {
		iv.Transcript = []models.Turn{}
	}
	if iv.CodingPlan == nil {
		iv.CodingPlan = []int{}
	}
	if iv.ResumePlan == nil {
		iv.ResumePlan = []int{}
	}
	_, err := r.col.InsertOne(ctx, iv)
	return err
}

func (r *interviewRepo) GetByInterviewID(ctx context.Context, interviewID string) (*models.Interview, error) {
	var iv models.Interview
	err := r.col.FindOne(ctx, bson.M{"interview_id": interviewID}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) AppendTurns(ctx context.Context, interviewID string, turns ...models.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range turns {
		if turns[i].Timestamp.IsZero() {
			turns[i].Timestamp = now
		}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"interview_id": interviewID},
		bson.M{"$push": bson.M{"transcript": bson.M{"$each": turns}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) SetPlanIfEmpty(ctx context.Context, interviewID string, coding, resume []int) (bool, error) {
	if coding == nil {
		coding = []int{}
	}
	if resume == nil {
		resume = []int{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"interview_id": interviewID,
			"coding_plan":  bson.M{"$size": 0},
			"resume_plan":  bson.M{"$size": 0},
		},
		bson.M{"$set": bson.M{
			"coding_plan": coding,
			"resume_plan": resume,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *interviewRepo) SetFeedbackIfEmpty(ctx context.Context, interviewID string, ev *models.Evaluation) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"interview_id": interviewID,
			"feedback":     bson.M{"$in": bson.A{nil}},
		},
		bson.M{"$set": bson.M{"feedback": ev}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *interviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
