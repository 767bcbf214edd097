package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rogersnm/todos/internal/id"
	"github.com/rogersnm/todos/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const tableName = "todo"

// sequenceRow is the table layout under the sequence policy: the database
// assigns ids and they double as insertion order.
type sequenceRow struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Task      string `gorm:"column:task;size:255;not null"`
	Completed bool   `gorm:"column:completed;not null"`
}

func (sequenceRow) TableName() string { return tableName }

func (r *sequenceRow) toModel() *model.Todo {
	return &model.Todo{ID: id.FromInt(r.ID), Task: r.Task, Completed: r.Completed}
}

// uuidRow is the table layout under the uuid policy. Random ids carry no
// order, so position records insertion order.
type uuidRow struct {
	ID        string `gorm:"column:id;primaryKey;size:36"`
	Position  int64  `gorm:"column:position;not null"`
	Task      string `gorm:"column:task;size:255;not null"`
	Completed bool   `gorm:"column:completed;not null"`
}

func (uuidRow) TableName() string { return tableName }

func (r *uuidRow) toModel() *model.Todo {
	return &model.Todo{ID: id.FromString(r.ID), Task: r.Task, Completed: r.Completed}
}

// SQLStore implements Store on a relational table through GORM.
type SQLStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	policy id.Policy
}

// compile-time check
var _ Store = (*SQLStore)(nil)

// NewSQL wraps an open, migrated database. Only the sequence and uuid
// policies are supported.
func NewSQL(db *gorm.DB, policy id.Policy) (*SQLStore, error) {
	switch policy.Kind() {
	case id.KindSequence, id.KindUUID:
	default:
		return nil, fmt.Errorf("id policy %q is not supported by sql storage", policy.Kind())
	}
	return &SQLStore{db: db, policy: policy}, nil
}

// OpenDB opens a GORM connection for driver ("sqlite" or "postgres").
func OpenDB(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, unavailable("open", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, unavailable("open", err)
	}
	if driver == DriverSQLite {
		// SQLite allows one writer; the store serializes anyway.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, unavailable("ping", err)
	}
	return db, nil
}

// OpenSQL opens the database, applies migrations and returns a store.
func OpenSQL(ctx context.Context, driver, dsn string, policy id.Policy) (*SQLStore, error) {
	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, policy.Kind()); err != nil {
		closeDB(db)
		return nil, err
	}
	s, err := NewSQL(db, policy)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Policy() id.Policy { return s.policy }

// DB exposes the underlying connection for migrations.
func (s *SQLStore) DB() *gorm.DB { return s.db }

func (s *SQLStore) Close() error {
	return closeDB(s.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) sequence() bool {
	return s.policy.Kind() == id.KindSequence
}

func (s *SQLStore) Create(ctx context.Context, task string) (*model.Todo, error) {
	if err := model.ValidateTask(task); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	if s.sequence() {
		row := sequenceRow{Task: task}
		if err := db.Create(&row).Error; err != nil {
			return nil, unavailable("create", err)
		}
		return row.toModel(), nil
	}

	var created *model.Todo
	err := db.Transaction(func(tx *gorm.DB) error {
		key, err := s.freshKey(tx)
		if err != nil {
			return err
		}
		var last int64
		if err := tx.Model(&uuidRow{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return unavailable("create", err)
		}
		row := uuidRow{ID: key, Position: last + 1, Task: task}
		if err := tx.Create(&row).Error; err != nil {
			return unavailable("create", err)
		}
		created = row.toModel()
		return nil
	})
	if err != nil {
		return nil, txError("create", err)
	}
	return created, nil
}

// freshKey draws uuids until one is not already in the table.
func (s *SQLStore) freshKey(tx *gorm.DB) (string, error) {
	const maxAttempts = 16
	for range maxAttempts {
		tid, err := s.policy.Next()
		if err != nil {
			return "", err
		}
		var n int64
		if err := tx.Model(&uuidRow{}).Where("id = ?", tid.String()).Count(&n).Error; err != nil {
			return "", unavailable("create", err)
		}
		if n == 0 {
			return tid.String(), nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts", maxAttempts)
}

func (s *SQLStore) FindAll(ctx context.Context) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	todos := []model.Todo{}
	if s.sequence() {
		var rows []sequenceRow
		if err := db.Order("id").Find(&rows).Error; err != nil {
			return nil, unavailable("find all", err)
		}
		for i := range rows {
			todos = append(todos, *rows[i].toModel())
		}
		return todos, nil
	}

	var rows []uuidRow
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return nil, unavailable("find all", err)
	}
	for i := range rows {
		todos = append(todos, *rows[i].toModel())
	}
	return todos, nil
}

func (s *SQLStore) FindOne(ctx context.Context, todoID id.ID) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findOne(s.db.WithContext(ctx), todoID)
}

func (s *SQLStore) findOne(db *gorm.DB, todoID id.ID) (*model.Todo, error) {
	if s.sequence() {
		n, ok := todoID.Int()
		if !ok {
			return nil, notFound(todoID)
		}
		var row sequenceRow
		if err := db.Where("id = ?", n).Take(&row).Error; err != nil {
			return nil, lookupError("find", todoID, err)
		}
		return row.toModel(), nil
	}

	var row uuidRow
	if err := db.Where("id = ?", todoID.String()).Take(&row).Error; err != nil {
		return nil, lookupError("find", todoID, err)
	}
	return row.toModel(), nil
}

func (s *SQLStore) Update(ctx context.Context, todoID id.ID, upd model.TodoUpdate) (*model.Todo, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *model.Todo
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := s.findOne(tx, todoID)
		if err != nil {
			return err
		}
		if upd.IsEmpty() {
			updated = t
			return nil
		}

		cols := map[string]any{}
		if upd.Task != nil {
			cols["task"] = *upd.Task
		}
		if upd.Completed != nil {
			cols["completed"] = *upd.Completed
		}
		res := tx.Table(tableName).Where("id = ?", s.key(todoID)).Updates(cols)
		if res.Error != nil {
			return unavailable("update", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound(todoID)
		}
		upd.Apply(t)
		updated = t
		return nil
	})
	if err != nil {
		return nil, txError("update", err)
	}
	return updated, nil
}

func (s *SQLStore) Remove(ctx context.Context, todoID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := todoID.Int(); s.sequence() && !ok {
		return notFound(todoID)
	}

	db := s.db.WithContext(ctx)
	var res *gorm.DB
	if s.sequence() {
		res = db.Where("id = ?", s.key(todoID)).Delete(&sequenceRow{})
	} else {
		res = db.Where("id = ?", s.key(todoID)).Delete(&uuidRow{})
	}
	if res.Error != nil {
		return unavailable("remove", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(todoID)
	}
	return nil
}

// key returns the column value for todoID.
func (s *SQLStore) key(todoID id.ID) any {
	if n, ok := todoID.Int(); ok && s.sequence() {
		return n
	}
	return todoID.String()
}

func lookupError(op string, todoID id.ID, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(todoID)
	}
	return unavailable(op, err)
}

// txError passes classified errors through and wraps anything else raised
// by the transaction itself (begin, commit) as a storage failure.
func txError(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	var se *StorageError
	if errors.As(err, &nf) || errors.As(err, &se) {
		return err
	}
	return unavailable(op, err)
}
