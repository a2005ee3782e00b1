package policy

import (
	"github.com/diewo77/go-growth/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Resource families owned by users.
var (
	Chatbots        = Owned[models.Chatbot]("chatbot")
	Forms           = Owned[models.Form]("form")
	LandingPages    = Owned[models.LandingPage]("landing_page")
	Workflows       = Owned[models.Workflow]("workflow")
	CRMContacts     = Owned[models.CRMContact]("crm_contact")
	CRMInteractions = Owned[models.CRMInteraction]("crm_interaction")
	Subscriptions   = Owned[models.Subscription]("subscription")
)

// OrderedBy sorts by column ascending. Column names are quoted per dialect.
func OrderedBy(column string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}})
	}
}
