package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

type teacherRepository struct {
	db *DB
}

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, t := range repo.db.teachers {
		if t.Email == email && !contains(excludedIDs, t.ID) {
			return teacher.ErrEmailExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = uuid.NewString()
	if t.DateAdded.IsZero() {
		t.DateAdded = time.Now().UTC()
	}
	repo.db.teachers[t.ID] = &t
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return *t, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) GetTeacherByEmail(ctx context.Context, email string) (teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, t := range repo.db.teachers {
		if t.Email == email {
			return *t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, id string, fields []core.Field) (teacher.Teacher, error) {
	if len(fields) == 0 {
		return teacher.Teacher{}, errNoData
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t, ok := repo.db.teachers[id]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	for _, f := range fields {
		switch f.Name {
		case "name":
			t.Name = f.Value.(string)
		case "email":
			t.Email = f.Value.(string)
		case "password":
			t.PasswordHash = f.Value.([]byte)
		case "description":
			t.Description.SetValid(f.Value.(string))
		case "isAdmin":
			t.IsAdmin = f.Value.(bool)
		}
	}
	return *t, nil
}

func (repo *teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return teacher.ErrNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}

func (repo *teacherRepository) QueryLessons(ctx context.Context, teacherID string, daysAgo int) ([]teacher.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	cutoff := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
	lessons := make([]teacher.Lesson, 0)
	for _, l := range repo.db.lessons {
		if l.TeacherID.String != teacherID || !l.Date.After(cutoff) {
			continue
		}
		name := ""
		if st, ok := repo.db.students[l.StudentID]; ok {
			name = st.Name
		}
		lessons = append(lessons, teacher.Lesson{ID: l.ID, StudentName: name, Date: l.Date})
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Date.After(lessons[j].Date) })
	return lessons, nil
}

func (repo *teacherRepository) QueryTechniques(ctx context.Context, teacherID string) ([]technique.Technique, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	techniques := make([]technique.Technique, 0)
	for _, t := range repo.db.techniques {
		if t.TeacherID.String == teacherID {
			techniques = append(techniques, *t)
		}
	}
	sort.Slice(techniques, func(i, j int) bool { return techniques[i].ID < techniques[j].ID })
	return techniques, nil
}

func (repo *teacherRepository) QueryRepertoire(ctx context.Context, teacherID string) ([]repertoire.Repertoire, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	reps := make([]repertoire.Repertoire, 0)
	for _, r := range repo.db.repertoire {
		if r.TeacherID.String == teacherID {
			reps = append(reps, *r)
		}
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].ID < reps[j].ID })
	return reps, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
