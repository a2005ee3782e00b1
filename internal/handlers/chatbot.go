package handlers

import (
	"net/http"

	"github.com/diewo77/go-growth/httpx"
	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"gorm.io/gorm"
)

type ChatbotHandler struct {
	base
}

func NewChatbotHandler(db *gorm.DB) *ChatbotHandler {
	return &ChatbotHandler{base: base{db: db}}
}

type chatbotInput struct {
	Name           string `json:"name" validate:"notblank,max=255"`
	WelcomeMessage string `json:"welcomeMessage"`
}

var notFoundChatbot = policy.Chatbots.NotFoundCode()

func (h *ChatbotHandler) List(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	bots, err := policy.Chatbots.List(r.Context(), h.db, user.ID)
	if err != nil {
		return err
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"chatbots": bots})
	return nil
}

func (h *ChatbotHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	var in chatbotInput
	if err := decode(r, &in, "validation_failed"); err != nil {
		return err
	}
	bot := &models.Chatbot{Name: in.Name, WelcomeMessage: in.WelcomeMessage}
	if err := policy.Chatbots.Create(r.Context(), h.db, bot, user.ID); err != nil {
		return err
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"chatbot": bot})
	return nil
}

func (h *ChatbotHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundChatbot)
	if err != nil {
		return err
	}
	bot, err := policy.Chatbots.Find(r.Context(), h.db, id, user.ID)
	if err != nil {
		return notFoundAs(err, notFoundChatbot)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"chatbot": bot})
	return nil
}

func (h *ChatbotHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundChatbot)
	if err != nil {
		return err
	}
	if err := policy.Chatbots.Delete(r.Context(), h.db, id, user.ID); err != nil {
		return notFoundAs(err, notFoundChatbot)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	return nil
}

// Conversations lists the conversations of an owned chatbot.
func (h *ChatbotHandler) Conversations(w http.ResponseWriter, r *http.Request) error {
	user, err := h.currentUser(r)
	if err != nil {
		return err
	}
	id, err := pathID(r, "id", notFoundChatbot)
	if err != nil {
		return err
	}
	if err := policy.Chatbots.Check(r.Context(), h.db, id, user.ID); err != nil {
		return notFoundAs(err, notFoundChatbot)
	}
	convs := []models.Conversation{}
	if err := h.db.WithContext(r.Context()).Where("chatbot_id = ?", id).Order("created_at DESC").Find(&convs).Error; err != nil {
		return httpx.Internal(err)
	}
	httpx.JSON(w, http.StatusOK, convs)
	return nil
}
