package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, st := range repo.db.students {
		if st.Email != email {
			continue
		}
		excluded := false
		for _, id := range excludedIDs {
			if st.ID == id {
				excluded = true
				break
			}
		}
		if !excluded {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	levelName, ok := repo.db.skillLevelName(ns.SkillLevelID)
	if !ok {
		return student.Student{}, core.NewValidationError(nil, core.FieldError{
			Field: "skillLevelId", Error: "invalid skill level"})
	}
	if _, ok = repo.db.teachers[ns.TeacherID]; !ok {
		return student.Student{}, core.NewValidationError(nil, core.FieldError{
			Field: "teacherId", Error: "invalid teacher"})
	}

	st := student.Student{
		ID:        repo.db.nextID(),
		Name:      ns.Name,
		Email:     ns.Email,
		TeacherID: null.StringFrom(ns.TeacherID),
		DateAdded: time.Now().UTC(),
	}
	if ns.Description != "" {
		st.Description.SetValid(ns.Description)
	}
	if ns.SkillLevelID != nil {
		st.SkillLevelID = null.IntFrom(*ns.SkillLevelID)
		st.SkillLevel = null.StringFrom(levelName)
	}
	repo.db.students[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]student.Student, 0)
	for _, st := range repo.db.students {
		if filter.Name != "" && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.SkillLevelID != nil && (!st.SkillLevelID.Valid || int(st.SkillLevelID.Int) != *filter.SkillLevelID) {
			continue
		}
		if filter.TeacherID != "" && st.TeacherID.String != filter.TeacherID {
			continue
		}
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if st, ok := repo.db.students[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id int, fields []core.Field) (student.Student, error) {
	if len(fields) == 0 {
		return student.Student{}, errNoData
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	st, ok := repo.db.students[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	for _, f := range fields {
		switch f.Name {
		case "name":
			st.Name = f.Value.(string)
		case "email":
			st.Email = f.Value.(string)
		case "description":
			st.Description.SetValid(f.Value.(string))
		case "skillLevelId":
			levelID := f.Value.(int)
			levelName, ok := repo.db.skillLevelName(&levelID)
			if !ok {
				return student.Student{}, core.NewValidationError(nil, core.FieldError{
					Field: "skillLevelId", Error: "invalid skill level"})
			}
			st.SkillLevelID = null.IntFrom(levelID)
			st.SkillLevel = null.StringFrom(levelName)
		case "teacherId":
			teacherID := f.Value.(string)
			if _, ok := repo.db.teachers[teacherID]; !ok {
				return student.Student{}, core.NewValidationError(nil, core.FieldError{
					Field: "teacherId", Error: "invalid teacher"})
			}
			st.TeacherID = null.StringFrom(teacherID)
		}
	}
	return *st, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	for aid, a := range repo.db.studentTechniques {
		if a.StudentID == id {
			delete(repo.db.studentTechniques, aid)
		}
	}
	for aid, a := range repo.db.studentRepertoire {
		if a.StudentID == id {
			delete(repo.db.studentRepertoire, aid)
		}
	}
	return nil
}

func (repo *studentRepository) QueryLessons(ctx context.Context, studentID, daysAgo int) ([]student.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cutoff := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
	lessons := make([]student.Lesson, 0)
	for _, l := range repo.db.lessons {
		if l.StudentID != studentID || !l.Date.After(cutoff) {
			continue
		}
		sl := student.Lesson{ID: l.ID, Date: l.Date}
		if t, ok := repo.db.teachers[l.TeacherID.String]; ok {
			sl.TeacherName = null.StringFrom(t.Name)
		}
		lessons = append(lessons, sl)
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Date.After(lessons[j].Date) })
	return lessons, nil
}

func (repo *studentRepository) QueryTechniqueReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.TechniqueReview, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	now := time.Now()
	reviews := make([]student.TechniqueReview, 0)
	for _, a := range repo.db.studentTechniques {
		if a.StudentID != studentID {
			continue
		}
		if !includeCompleted && !a.Due(now) {
			continue
		}
		t, ok := repo.db.techniques[a.ItemID]
		if !ok {
			continue
		}
		reviews = append(reviews, student.TechniqueReview{
			ID:       t.ID,
			Tonic:    t.Tonic,
			Mode:     t.Mode,
			Type:     t.Type,
			Schedule: student.ComputeSchedule(*a, now),
		})
	}
	sort.Slice(reviews, func(i, j int) bool { return scheduleLess(reviews[i].Schedule, reviews[j].Schedule) })
	return reviews, nil
}

func (repo *studentRepository) QueryRepertoireReviews(ctx context.Context, studentID int, includeCompleted bool) ([]student.RepertoireReview, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	now := time.Now()
	reviews := make([]student.RepertoireReview, 0)
	for _, a := range repo.db.studentRepertoire {
		if a.StudentID != studentID {
			continue
		}
		if !includeCompleted && !a.Due(now) {
			continue
		}
		r, ok := repo.db.repertoire[a.ItemID]
		if !ok {
			continue
		}
		reviews = append(reviews, student.RepertoireReview{
			ID:            r.ID,
			Name:          r.Name,
			Composer:      r.Composer,
			Arranger:      r.Arranger,
			Genre:         r.Genre,
			SheetMusicURL: r.SheetMusicURL,
			Schedule:      student.ComputeSchedule(*a, now),
		})
	}
	sort.Slice(reviews, func(i, j int) bool { return scheduleLess(reviews[i].Schedule, reviews[j].Schedule) })
	return reviews, nil
}

// scheduleLess orders by next review, soonest first, unscheduled last.
func scheduleLess(a, b student.Schedule) bool {
	if a.NextReview.Valid != b.NextReview.Valid {
		return a.NextReview.Valid
	}
	return a.NextReview.Time.Before(b.NextReview.Time)
}

func (repo *studentRepository) AssignTechnique(ctx context.Context, studentID, techniqueID int, interval *time.Duration) (student.AssignedTechnique, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t, ok := repo.db.techniques[techniqueID]
	if !ok {
		return student.AssignedTechnique{}, core.NewValidationError(nil, core.FieldError{
			Field: "techniqueId", Error: "invalid technique"})
	}
	for _, a := range repo.db.studentTechniques {
		if a.StudentID == studentID && a.ItemID == techniqueID {
			return student.AssignedTechnique{}, core.NewConflictError("technique already assigned to this student")
		}
	}

	now := time.Now()
	a := student.Assignment{
		ID:             repo.db.nextID(),
		StudentID:      studentID,
		ItemID:         techniqueID,
		ReviewInterval: interval,
		DateAdded:      now.UTC(),
	}
	repo.db.studentTechniques[a.ID] = &a

	return student.AssignedTechnique{
		ID:          a.ID,
		DateAdded:   a.DateAdded,
		Tonic:       t.Tonic,
		Mode:        t.Mode,
		Type:        t.Type,
		Description: t.Description,
		SkillLevel:  t.SkillLevel,
		TeacherID:   t.TeacherID,
		Schedule:    student.ComputeSchedule(a, now),
	}, nil
}

func (repo *studentRepository) AssignRepertoire(ctx context.Context, studentID, repertoireID int, interval *time.Duration) (student.AssignedRepertoire, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r, ok := repo.db.repertoire[repertoireID]
	if !ok {
		return student.AssignedRepertoire{}, core.NewValidationError(nil, core.FieldError{
			Field: "repertoireId", Error: "invalid repertoire"})
	}
	for _, a := range repo.db.studentRepertoire {
		if a.StudentID == studentID && a.ItemID == repertoireID {
			return student.AssignedRepertoire{}, core.NewConflictError("repertoire already assigned to this student")
		}
	}

	now := time.Now()
	a := student.Assignment{
		ID:             repo.db.nextID(),
		StudentID:      studentID,
		ItemID:         repertoireID,
		ReviewInterval: interval,
		DateAdded:      now.UTC(),
	}
	repo.db.studentRepertoire[a.ID] = &a

	return student.AssignedRepertoire{
		ID:            a.ID,
		DateAdded:     a.DateAdded,
		Name:          r.Name,
		Composer:      r.Composer,
		Arranger:      r.Arranger,
		Genre:         r.Genre,
		SheetMusicURL: r.SheetMusicURL,
		Description:   r.Description,
		SkillLevel:    r.SkillLevel,
		TeacherID:     r.TeacherID,
		Schedule:      student.ComputeSchedule(a, now),
	}, nil
}

func (repo *studentRepository) UnassignTechnique(ctx context.Context, studentID, techniqueID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, a := range repo.db.studentTechniques {
		if a.StudentID == studentID && a.ItemID == techniqueID {
			delete(repo.db.studentTechniques, id)
			return nil
		}
	}
	return student.ErrTechniqueNotAssigned
}

func (repo *studentRepository) UnassignRepertoire(ctx context.Context, studentID, repertoireID int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for id, a := range repo.db.studentRepertoire {
		if a.StudentID == studentID && a.ItemID == repertoireID {
			delete(repo.db.studentRepertoire, id)
			return nil
		}
	}
	return student.ErrRepertoireNotAssigned
}
