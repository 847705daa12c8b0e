package httpserver

import (
	"net/http"

	"github.com/phenrril/elegante/internal/domain"
)

func (s *Server) apiNewsletter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	fail := failure{internal: "Failed to subscribe to newsletter"}
	var in domain.NewSubscription
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, fail)
		return
	}
	sub, err := s.newsletter.Subscribe(r.Context(), in)
	if err != nil {
		writeError(w, r, err, fail)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Subscription successful", "subscription": sub})
}

func (s *Server) apiContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	fail := failure{internal: "Failed to submit contact form"}
	var in domain.NewContactForm
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, fail)
		return
	}
	cf, err := s.contact.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err, fail)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Form submitted successfully", "contactForm": cf})
}
