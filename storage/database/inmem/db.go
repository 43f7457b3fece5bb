// Package inmemdb provides in-memory repositories for tests.
package inmemdb

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/student"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

// errNoData rejects sparse updates that would change nothing.
var errNoData = core.NewValidationError(errors.New("No data"))

type DB struct {
	mu  sync.RWMutex
	seq int

	teachers          map[string]*teacher.Teacher
	skillLevels       map[int]*skilllevel.SkillLevel
	techniques        map[int]*technique.Technique
	repertoire        map[int]*repertoire.Repertoire
	students          map[int]*student.Student
	lessons           map[int]*lesson.Lesson
	studentTechniques map[int]*student.Assignment
	studentRepertoire map[int]*student.Assignment
}

func NewDB() *DB {
	return &DB{
		teachers:          make(map[string]*teacher.Teacher),
		skillLevels:       make(map[int]*skilllevel.SkillLevel),
		techniques:        make(map[int]*technique.Technique),
		repertoire:        make(map[int]*repertoire.Repertoire),
		students:          make(map[int]*student.Student),
		lessons:           make(map[int]*lesson.Lesson),
		studentTechniques: make(map[int]*student.Assignment),
		studentRepertoire: make(map[int]*student.Assignment),
	}
}

// nextID must be called with db.mu held.
func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

// SetTechniqueReviewState adjusts an assignment's review state, for fixtures.
func (db *DB) SetTechniqueReviewState(studentID, techniqueID int, reviewedAt, completedAt null.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.studentTechniques {
		if a.StudentID == studentID && a.ItemID == techniqueID {
			a.ReviewedAt = reviewedAt
			a.CompletedAt = completedAt
		}
	}
}

// SetRepertoireReviewState adjusts an assignment's review state, for fixtures.
func (db *DB) SetRepertoireReviewState(studentID, repertoireID int, reviewedAt, completedAt null.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.studentRepertoire {
		if a.StudentID == studentID && a.ItemID == repertoireID {
			a.ReviewedAt = reviewedAt
			a.CompletedAt = completedAt
		}
	}
}

// skillLevelName must be called with db.mu held.
func (db *DB) skillLevelName(id *int) (name string, ok bool) {
	if id == nil {
		return "", true
	}
	sl, ok := db.skillLevels[*id]
	if !ok {
		return "", false
	}
	return sl.Name, true
}
