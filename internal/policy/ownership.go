// Package policy scopes every read and write of owned resources to the
// session user. A resource owned by someone else is indistinguishable from
// one that does not exist.
package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-growth/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for absent and foreign resources alike.
var ErrNotFound = errors.New("resource not found")

// Scope is a gorm scope, e.g. a Preload or an Order clause.
type Scope = func(*gorm.DB) *gorm.DB

// Resource describes one owned resource family.
type Resource[T any] struct {
	Name        string // used in error codes: "<name>_not_found"
	OwnerColumn string
}

// Owned declares a resource family owned through the user_id column.
func Owned[T any](name string) Resource[T] {
	return Resource[T]{Name: name, OwnerColumn: "user_id"}
}

// NotFoundCode is the i18n key reported when a lookup misses.
func (r Resource[T]) NotFoundCode() string { return r.Name + "_not_found" }

// Scope restricts a query to rows owned by ownerID.
func (r Resource[T]) Scope(ownerID uint) Scope {
	col := r.OwnerColumn
	if col == "" {
		col = "user_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Value: ownerID})
	}
}

// Find loads the resource id owned by ownerID in a single query.
func (r Resource[T]) Find(ctx context.Context, db *gorm.DB, id, ownerID uint, scopes ...Scope) (*T, error) {
	var v T
	err := db.WithContext(ctx).
		Scopes(append([]Scope{r.Scope(ownerID)}, scopes...)...).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}, Value: id}).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %d: %w", r.Name, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", r.Name, id, err)
	}
	return &v, nil
}

// Check returns ErrNotFound unless ownerID owns id.
func (r Resource[T]) Check(ctx context.Context, db *gorm.DB, id, ownerID uint) error {
	var count int64
	err := db.WithContext(ctx).Model(new(T)).
		Scopes(r.Scope(ownerID)).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}, Value: id}).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check %s %d: %w", r.Name, id, err)
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", r.Name, id, ErrNotFound)
	}
	return nil
}

// List returns every row owned by ownerID, newest first unless scopes order otherwise.
func (r Resource[T]) List(ctx context.Context, db *gorm.DB, ownerID uint, scopes ...Scope) ([]T, error) {
	items := []T{}
	q := db.WithContext(ctx).Scopes(append([]Scope{r.Scope(ownerID)}, scopes...)...)
	if len(scopes) == 0 {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true})
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.Name, err)
	}
	return items, nil
}

// Create stores v with its owner forced to ownerID.
func (r Resource[T]) Create(ctx context.Context, db *gorm.DB, v *T, ownerID uint) error {
	o, ok := any(v).(models.Ownable)
	if !ok {
		return fmt.Errorf("create %s: %T is not ownable", r.Name, v)
	}
	o.SetUserID(ownerID)
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.Name, err)
	}
	return nil
}

// Delete removes id if ownerID owns it.
func (r Resource[T]) Delete(ctx context.Context, db *gorm.DB, id, ownerID uint) error {
	res := db.WithContext(ctx).
		Scopes(r.Scope(ownerID)).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}, Value: id}).
		Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %s %d: %w", r.Name, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", r.Name, id, ErrNotFound)
	}
	return nil
}
