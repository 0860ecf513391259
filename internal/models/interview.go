package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Speaker string

const (
	SpeakerAI   Speaker = "AI"
	SpeakerUser Speaker = "User"
)

// Turn is a single utterance in the interview transcript. Turns are
// append-only and never edited after insertion.
type Turn struct {
	Speaker   Speaker   `bson:"speaker" json:"speaker"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Evaluation is the scored feedback produced once per interview.
// Strengths and AreasForImprovement are single-line, comma-joined phrase
// strings; the generation contract and the display layer both expect that
// shape.
type Evaluation struct {
	TechnicalScore      int    `bson:"technical_score" json:"technicalScore"`
	CommunicationScore  int    `bson:"communication_score" json:"communicationScore"`
	ProblemSolvingScore int    `bson:"problem_solving_score" json:"problemSolvingScore"`
	OverallFeedback     string `bson:"overall_feedback" json:"overallFeedback"`
	Strengths           string `bson:"strengths" json:"strengths"`
	AreasForImprovement string `bson:"areas_for_improvement" json:"areasForImprovement"`
}

// Interview is the single aggregate for one mock-interview attempt, stored
// as one Mongo document keyed by InterviewID.
//
// CodingPlan and ResumePlan are disjoint sets of 1-based question slots in
// [2,9], sorted ascending. Both empty means the plan has not been computed
// yet; it is computed exactly once, lazily, on the first turn that needs it.
type Interview struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InterviewID string             `bson:"interview_id" json:"interview_id"` // uuid v4
	UserID      string             `bson:"user_id" json:"user_id"`

	JobRole    string `bson:"job_role" json:"job_role"`
	Skills     string `bson:"skills" json:"skills"`
	Experience string `bson:"experience" json:"experience"`
	ResumeText string `bson:"resume_text,omitempty" json:"resume_text,omitempty"`

	Transcript []Turn `bson:"transcript" json:"transcript"`

	CodingPlan []int `bson:"coding_plan" json:"coding_plan"`
	ResumePlan []int `bson:"resume_plan" json:"resume_plan"`

	Feedback *Evaluation `bson:"feedback,omitempty" json:"feedback,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasResume reports whether a resume was attached at creation, which is
// what toggles resume-question eligibility.
func (i *Interview) HasResume() bool { return i.ResumeText != "" }

// PlanMissing reports whether the question plan still has to be computed.
func (i *Interview) PlanMissing() bool {
	return len(i.CodingPlan) == 0 && len(i.ResumePlan) == 0
}
