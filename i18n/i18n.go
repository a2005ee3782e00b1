// Package i18n holds the message catalog used by API errors and page shells.
// Portuguese is the default language; English is the only alternative.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Default is the language used when nothing else matches.
const Default = "pt"

var supported = []language.Tag{language.Portuguese, language.English}

var matcher = language.NewMatcher(supported)

type ctxKey struct{}

// WithLang stores the resolved language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Normalize(lang))
}

// LangFrom returns the language stored by WithLang, or Default.
func LangFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return Default
}

// Supported reports whether lang is a catalog language.
func Supported(lang string) bool {
	_, ok := catalog[strings.ToLower(lang)]
	return ok
}

// Normalize maps region variants ("en-GB", "pt_BR") onto catalog languages.
func Normalize(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if Supported(l) {
		return l
	}
	return Default
}

// DetectLanguage picks the best catalog language for an Accept-Language header.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// T translates code into lang. Lookup order: lang, Default, English, the code itself.
// Some codes exist only in English.
func T(lang, code string) string {
	for _, l := range []string{strings.ToLower(lang), Default, "en"} {
		if msgs, ok := catalog[l]; ok {
			if msg, ok := msgs[code]; ok {
				return msg
			}
		}
	}
	return code
}

var catalog = map[string]map[string]string{
	"pt": {
		"required":                "Obrigatório",
		"invalid_email":           "E-mail inválido",
		"invalid_json":            "Corpo da requisição inválido",
		"invalid_choice":          "Valor não permitido",
		"too_short":               "Valor muito curto",
		"too_long":                "Valor muito longo",
		"invalid":                 "Valor inválido",
		"validation_failed":       "Campos obrigatórios ausentes ou inválidos",
		"unauthorized":            "Não autorizado",
		"internal_error":          "Erro interno do servidor",
		"user_not_found":          "Usuário não encontrado",
		"email_taken":             "Este e-mail já está cadastrado",
		"invalid_credentials":     "E-mail ou senha inválidos",
		"current_password_wrong":  "Senha atual incorreta",
		"current_password_needed": "Informe a senha atual para alterar a senha",
		"password_too_short":      "A nova senha deve ter pelo menos 8 caracteres",
		"lead_required":           "Nome e e-mail são obrigatórios",
		"contact_required":        "Nome, e-mail e mensagem são obrigatórios",
		"chatbot_not_found":       "Chatbot não encontrado",
		"form_not_found":          "Formulário não encontrado",
		"crm_contact_not_found":   "Contato não encontrado",
		"subscription_not_found":  "Assinatura não encontrada",
		"unknown_plan":            "Plano inválido",
		"billing_unavailable":     "Não foi possível iniciar o pagamento",
		"rate_limited":            "Muitas requisições, tente novamente em instantes",
		"nav_dashboard":           "Painel",
		"nav_crm":                 "CRM",
		"nav_forms":               "Formulários",
		"nav_analytics":           "Análises",
		"nav_workflows":           "Automações",
		"nav_landing_pages":       "Landing pages",
		"nav_profile":             "Perfil",
		"nav_admin":               "Administração",
		"login_title":             "Entrar",
		"signup_title":            "Criar conta",
		"email":                   "E-mail",
		"password":                "Senha",
		"name":                    "Nome",
		"company_name":            "Empresa",
		"logout":                  "Sair",
		"home_headline":           "Marketing e vendas em um só lugar",
	},
	"en": {
		"required":                "Required",
		"invalid_email":           "Invalid email",
		"invalid_json":            "Invalid request body",
		"invalid_choice":          "Value not allowed",
		"too_short":               "Value too short",
		"too_long":                "Value too long",
		"invalid":                 "Invalid value",
		"validation_failed":       "Missing or invalid required fields",
		"unauthorized":            "Unauthorized",
		"internal_error":          "Internal server error",
		"user_not_found":          "User not found",
		"email_taken":             "Email already registered",
		"invalid_credentials":     "Invalid email or password",
		"current_password_wrong":  "Current password is incorrect",
		"current_password_needed": "Current password is required to set a new password",
		"password_too_short":      "New password must be at least 8 characters",
		"lead_required":           "Name and email are required",
		"contact_required":        "Name, email and message are required",
		"chatbot_not_found":       "Chatbot not found",
		"form_not_found":          "Form not found",
		"crm_contact_not_found":   "Contact not found",
		"subscription_not_found":  "Subscription not found",
		"unknown_plan":            "Unknown plan",
		"billing_unavailable":     "Could not start checkout",
		"rate_limited":            "Too many requests, try again shortly",
		"nav_dashboard":           "Dashboard",
		"nav_crm":                 "CRM",
		"nav_forms":               "Forms",
		"nav_analytics":           "Analytics",
		"nav_workflows":           "Workflows",
		"nav_landing_pages":       "Landing pages",
		"nav_profile":             "Profile",
		"nav_admin":               "Admin",
		"login_title":             "Sign in",
		"signup_title":            "Create account",
		"email":                   "Email",
		"password":                "Password",
		"name":                    "Name",
		"company_name":            "Company",
		"logout":                  "Sign out",
		"home_headline":           "Marketing and sales in one place",

		// Workflow and landing page handlers answer in English only.
		"workflow_not_found":      "Workflow not found",
		"workflow_no_actions":     "Workflow must have at least one action",
		"workflow_invalid_status": "Invalid workflow status",
		"landing_page_not_found":  "Landing page not found",
		"invalid_publish_action":  "Action must be publish or unpublish",
		"slug_taken":              "Slug already in use",
		"invalid_json_field":      "Features and testimonials must be JSON arrays",
	},
}
