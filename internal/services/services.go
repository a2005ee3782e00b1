// Package services holds the operations that go beyond a single owned
// lookup: workflow transitions, landing page publication and public
// retrieval, form submissions and CRM aggregates.
package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: true})
}
