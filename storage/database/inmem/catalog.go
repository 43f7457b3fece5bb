package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

type skillLevelRepository struct {
	db *DB
}

func NewSkillLevelRepository(db *DB) skilllevel.Repository {
	return &skillLevelRepository{db: db}
}

func (repo *skillLevelRepository) CreateSkillLevel(ctx context.Context, name string) (skilllevel.SkillLevel, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, sl := range repo.db.skillLevels {
		if sl.Name == name {
			return skilllevel.SkillLevel{}, skilllevel.ErrNameExists
		}
	}
	sl := skilllevel.SkillLevel{ID: repo.db.nextID(), Name: name}
	repo.db.skillLevels[sl.ID] = &sl
	return sl, nil
}

func (repo *skillLevelRepository) QuerySkillLevels(ctx context.Context) ([]skilllevel.SkillLevel, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	levels := make([]skilllevel.SkillLevel, 0, len(repo.db.skillLevels))
	for _, sl := range repo.db.skillLevels {
		levels = append(levels, *sl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

func (repo *skillLevelRepository) GetSkillLevelByID(ctx context.Context, id int) (skilllevel.SkillLevel, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sl, ok := repo.db.skillLevels[id]; ok {
		return *sl, nil
	}
	return skilllevel.SkillLevel{}, skilllevel.ErrNotFound
}

func (repo *skillLevelRepository) DeleteSkillLevel(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sl, ok := repo.db.skillLevels[id]
	if !ok {
		return skilllevel.ErrNotFound
	}
	// referencing catalog items fall back to a null skill level
	for _, t := range repo.db.techniques {
		if t.SkillLevel.String == sl.Name {
			t.SkillLevel = null.String{}
		}
	}
	for _, r := range repo.db.repertoire {
		if r.SkillLevel.String == sl.Name {
			r.SkillLevel = null.String{}
		}
	}
	for _, st := range repo.db.students {
		if st.SkillLevelID.Valid && int(st.SkillLevelID.Int) == id {
			st.SkillLevelID = null.Int{}
			st.SkillLevel = null.String{}
		}
	}
	delete(repo.db.skillLevels, id)
	return nil
}

type techniqueRepository struct {
	db *DB
}

func NewTechniqueRepository(db *DB) technique.Repository {
	return &techniqueRepository{db: db}
}

func (repo *techniqueRepository) CreateTechnique(ctx context.Context, nt technique.NewTechnique) (technique.Technique, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, t := range repo.db.techniques {
		if t.Tonic == nt.Tonic && t.Mode == nt.Mode && t.Type == nt.Type && t.TeacherID.String == nt.TeacherID {
			return technique.Technique{}, technique.ErrExists
		}
	}
	levelName, ok := repo.db.skillLevelName(nt.SkillLevelID)
	if !ok {
		return technique.Technique{}, core.NewValidationError(nil, core.FieldError{
			Field: "skillLevelId", Error: "invalid skill level"})
	}

	t := technique.Technique{
		ID:        repo.db.nextID(),
		Tonic:     nt.Tonic,
		Mode:      nt.Mode,
		Type:      nt.Type,
		DateAdded: time.Now().UTC(),
		TeacherID: null.StringFrom(nt.TeacherID),
	}
	if nt.Description != "" {
		t.Description.SetValid(nt.Description)
	}
	if levelName != "" {
		t.SkillLevel.SetValid(levelName)
	}
	repo.db.techniques[t.ID] = &t
	return t, nil
}

func (repo *techniqueRepository) QueryTechniques(ctx context.Context) ([]technique.Technique, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	techniques := make([]technique.Technique, 0, len(repo.db.techniques))
	for _, t := range repo.db.techniques {
		techniques = append(techniques, *t)
	}
	sort.Slice(techniques, func(i, j int) bool { return techniques[i].ID < techniques[j].ID })
	return techniques, nil
}

func (repo *techniqueRepository) GetTechniqueByID(ctx context.Context, id int) (technique.Technique, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.techniques[id]; ok {
		return *t, nil
	}
	return technique.Technique{}, technique.ErrNotFound
}

func (repo *techniqueRepository) UpdateTechnique(ctx context.Context, id int, fields []core.Field) (technique.Technique, error) {
	if len(fields) == 0 {
		return technique.Technique{}, errNoData
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t, ok := repo.db.techniques[id]
	if !ok {
		return technique.Technique{}, technique.ErrNotFound
	}
	for _, f := range fields {
		switch f.Name {
		case "tonic":
			t.Tonic = f.Value.(string)
		case "mode":
			t.Mode = f.Value.(string)
		case "type":
			t.Type = f.Value.(string)
		case "description":
			t.Description.SetValid(f.Value.(string))
		case "skillLevelId":
			levelID := f.Value.(int)
			levelName, ok := repo.db.skillLevelName(&levelID)
			if !ok {
				return technique.Technique{}, core.NewValidationError(nil, core.FieldError{
					Field: "skillLevelId", Error: "invalid skill level"})
			}
			t.SkillLevel = null.StringFrom(levelName)
		}
	}
	return *t, nil
}

func (repo *techniqueRepository) DeleteTechnique(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.techniques[id]; !ok {
		return technique.ErrNotFound
	}
	delete(repo.db.techniques, id)
	for aid, a := range repo.db.studentTechniques {
		if a.ItemID == id {
			delete(repo.db.studentTechniques, aid)
		}
	}
	return nil
}

type repertoireRepository struct {
	db *DB
}

func NewRepertoireRepository(db *DB) repertoire.Repository {
	return &repertoireRepository{db: db}
}

func (repo *repertoireRepository) CreateRepertoire(ctx context.Context, nr repertoire.NewRepertoire) (repertoire.Repertoire, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	levelName, ok := repo.db.skillLevelName(nr.SkillLevelID)
	if !ok {
		return repertoire.Repertoire{}, core.NewValidationError(nil, core.FieldError{
			Field: "skillLevelId", Error: "invalid skill level"})
	}

	r := repertoire.Repertoire{
		ID:        repo.db.nextID(),
		Name:      nr.Name,
		Composer:  nr.Composer,
		Genre:     nr.Genre,
		DateAdded: time.Now().UTC(),
		TeacherID: null.StringFrom(nr.TeacherID),
	}
	if nr.Arranger != "" {
		r.Arranger.SetValid(nr.Arranger)
	}
	if nr.SheetMusicURL != "" {
		r.SheetMusicURL.SetValid(nr.SheetMusicURL)
	}
	if nr.Description != "" {
		r.Description.SetValid(nr.Description)
	}
	if levelName != "" {
		r.SkillLevel.SetValid(levelName)
	}
	repo.db.repertoire[r.ID] = &r
	return r, nil
}

func (repo *repertoireRepository) QueryRepertoire(ctx context.Context) ([]repertoire.Repertoire, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	reps := make([]repertoire.Repertoire, 0, len(repo.db.repertoire))
	for _, r := range repo.db.repertoire {
		reps = append(reps, *r)
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].ID < reps[j].ID })
	return reps, nil
}

func (repo *repertoireRepository) GetRepertoireByID(ctx context.Context, id int) (repertoire.Repertoire, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if r, ok := repo.db.repertoire[id]; ok {
		return *r, nil
	}
	return repertoire.Repertoire{}, repertoire.ErrNotFound
}

func (repo *repertoireRepository) UpdateRepertoire(ctx context.Context, id int, fields []core.Field) (repertoire.Repertoire, error) {
	if len(fields) == 0 {
		return repertoire.Repertoire{}, errNoData
	}
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	r, ok := repo.db.repertoire[id]
	if !ok {
		return repertoire.Repertoire{}, repertoire.ErrNotFound
	}
	for _, f := range fields {
		switch f.Name {
		case "name":
			r.Name = f.Value.(string)
		case "composer":
			r.Composer = f.Value.(string)
		case "arranger":
			r.Arranger.SetValid(f.Value.(string))
		case "genre":
			r.Genre = f.Value.(string)
		case "sheetMusicUrl":
			r.SheetMusicURL.SetValid(f.Value.(string))
		case "description":
			r.Description.SetValid(f.Value.(string))
		case "skillLevelId":
			levelID := f.Value.(int)
			levelName, ok := repo.db.skillLevelName(&levelID)
			if !ok {
				return repertoire.Repertoire{}, core.NewValidationError(nil, core.FieldError{
					Field: "skillLevelId", Error: "invalid skill level"})
			}
			r.SkillLevel = null.StringFrom(levelName)
		}
	}
	return *r, nil
}

func (repo *repertoireRepository) DeleteRepertoire(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.repertoire[id]; !ok {
		return repertoire.ErrNotFound
	}
	delete(repo.db.repertoire, id)
	for aid, a := range repo.db.studentRepertoire {
		if a.ItemID == id {
			delete(repo.db.studentRepertoire, aid)
		}
	}
	return nil
}
