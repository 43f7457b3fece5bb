package student

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Assignment links an item (technique or repertoire) to a student together
// with its review state. ReviewInterval is nil for one-off assignments that
// leave the review queue once completed.
type Assignment struct {
	ID             int            `db:"id"`
	StudentID      int            `db:"student_id"`
	ItemID         int            `db:"item_id"`
	CompletedAt    null.Time      `db:"completed_at"`
	ReviewedAt     null.Time      `db:"reviewed_at"`
	ReviewInterval *time.Duration `db:"review_interval"`
	DateAdded      time.Time      `db:"date_added"`
}

// Schedule is the derived review state shipped with every assigned item.
type Schedule struct {
	Completed  bool      `db:"completed" json:"completed"`
	LastReview null.Time `db:"last_review" json:"lastReview"`
	NextReview null.Time `db:"next_review" json:"nextReview"`
}

// ComputeSchedule derives the review schedule of an assignment.
//
// An item that was completed and carries no review interval never comes up
// again. An item that has never been reviewed is due right away. Otherwise
// the next review falls one interval after the last one; without an interval
// there is no next review.
func ComputeSchedule(a Assignment, now time.Time) Schedule {
	s := Schedule{
		Completed:  a.CompletedAt.Valid,
		LastReview: a.ReviewedAt,
	}
	switch {
	case s.Completed && a.ReviewInterval == nil:
	case !a.ReviewedAt.Valid:
		s.NextReview = null.TimeFrom(now)
	case a.ReviewInterval != nil:
		s.NextReview = null.TimeFrom(a.ReviewedAt.Time.Add(*a.ReviewInterval))
	}
	return s
}

type (
	// TechniqueReview is a row in a student's technique review queue.
	TechniqueReview struct {
		ID    int    `db:"id" json:"id"`
		Tonic string `db:"tonic" json:"tonic"`
		Mode  string `db:"mode" json:"mode"`
		Type  string `db:"type" json:"type"`
		Schedule
	}

	// RepertoireReview is a row in a student's repertoire review queue.
	RepertoireReview struct {
		ID            int         `db:"id" json:"id"`
		Name          string      `db:"name" json:"name"`
		Composer      string      `db:"composer" json:"composer"`
		Arranger      null.String `db:"arranger" json:"arranger"`
		Genre         string      `db:"genre" json:"genre"`
		SheetMusicURL null.String `db:"sheet_music_url" json:"sheetMusicUrl"`
		Schedule
	}

	// AssignedTechnique is returned when a technique is assigned to a student.
	// ID is the assignment's own id, not the technique's.
	AssignedTechnique struct {
		ID          int         `db:"id" json:"id"`
		DateAdded   time.Time   `db:"date_added" json:"dateAdded"`
		Tonic       string      `db:"tonic" json:"tonic"`
		Mode        string      `db:"mode" json:"mode"`
		Type        string      `db:"type" json:"type"`
		Description null.String `db:"description" json:"description"`
		SkillLevel  null.String `db:"skill_level" json:"skillLevel"`
		TeacherID   null.String `db:"teacher_id" json:"teacherId"`
		Schedule
	}

	// AssignedRepertoire is returned when repertoire is assigned to a student.
	// ID is the assignment's own id, not the repertoire's.
	AssignedRepertoire struct {
		ID            int         `db:"id" json:"id"`
		DateAdded     time.Time   `db:"date_added" json:"dateAdded"`
		Name          string      `db:"name" json:"name"`
		Composer      string      `db:"composer" json:"composer"`
		Arranger      null.String `db:"arranger" json:"arranger"`
		Genre         string      `db:"genre" json:"genre"`
		SheetMusicURL null.String `db:"sheet_music_url" json:"sheetMusicUrl"`
		Description   null.String `db:"description" json:"description"`
		SkillLevel    null.String `db:"skill_level" json:"skillLevel"`
		TeacherID     null.String `db:"teacher_id" json:"teacherId"`
		Schedule
	}
)

// Due reports whether the assignment belongs in the student's review queue:
// anything not yet completed, plus completed items whose review interval has
// lapsed since the last review. A reviewed-at boundary exactly one interval
// ago counts as due.
func (a Assignment) Due(now time.Time) bool {
	if !a.CompletedAt.Valid {
		return true
	}
	if a.ReviewedAt.Valid && a.ReviewInterval != nil {
		return !a.ReviewedAt.Time.Add(*a.ReviewInterval).After(now)
	}
	return false
}
