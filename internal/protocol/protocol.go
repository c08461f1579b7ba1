// Package protocol defines the cross-package vocabulary for ttct: route
// names, completion bus channel and topic, request status values and the
// user-facing messages shown by controllers.
package protocol

import "strings"

// Route names understood by the router.
const (
	RouteDashboard     = "dashboard"
	RouteSectionPrefix = "section"
)

// DashboardTarget is the navigation target for the dashboard screen.
const DashboardTarget = "dashboard"

// SectionRoute returns the route name for a section id ("3" -> "section3").
func SectionRoute(id string) string {
	return RouteSectionPrefix + id
}

// SectionFromRoute extracts the section id from a section route.
// It returns false for the dashboard route and anything that isn't a section route.
func SectionFromRoute(route string) (string, bool) {
	if !strings.HasPrefix(route, RouteSectionPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(route, RouteSectionPrefix)
	if id == "" {
		return "", false
	}
	return id, true
}

// Completion bus identifiers.
const (
	BusChannel            = "ttct"
	TopicSectionCompleted = "sectionCompleted"
)

// RequestStatus is the lifecycle status of a negotiation request.
type RequestStatus string

const (
	RequestDraft     RequestStatus = "draft"
	RequestSubmitted RequestStatus = "submitted"
)

func (s RequestStatus) String() string { return string(s) }

// IsValid reports whether s is a recognised request status.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestDraft, RequestSubmitted:
		return true
	default:
		return false
	}
}

// User-facing messages.
const (
	MsgDraftSaved          = "Bozza salvata con successo"
	MsgSaveError           = "Errore nel salvataggio"
	MsgSubmitBlocked       = "Completare tutte le sezioni obbligatorie prima di inviare"
	MsgSubmitted           = "Richiesta inviata al Commercio Internazionale"
	MsgSubmitError         = "Errore nell'invio della richiesta"
	MsgCannotGoBack        = "Impossibile tornare indietro"
	MsgRouterUnavailable   = "Router non disponibile"
	MsgSectionSubmitNotYet = "Funzione di invio non ancora disponibile dalla sezione"
	MsgRequiredFields      = "Completare tutti i campi obbligatori prima di continuare"
	MsgSelectTipologia     = "Selezionare una tipologia di richiesta prima di continuare"
	MsgDraftError          = "Errore nel salvataggio della bozza"
	MsgNextError           = "Errore nel passaggio alla sezione successiva"
	MsgNotReady            = "Caricamento in corso, riprovare tra un momento"
)

// MsgSectionNotImplemented is shown when navigating to an unknown section.
func MsgSectionNotImplemented(id string) string {
	return "Sezione " + id + " non ancora implementata"
}

// MsgNavigationError is shown when the router fails to switch screens.
func MsgNavigationError(id string) string {
	return "Errore nella navigazione alla sezione " + id
}

// MsgSectionDraftSaved confirms a section-level draft save.
func MsgSectionDraftSaved(id string) string {
	return "Sezione " + id + " salvata in bozza"
}

// MsgSelected confirms a choice selection.
func MsgSelected(text string) string {
	return "Selezionato: " + text
}
