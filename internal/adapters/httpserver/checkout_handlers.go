package httpserver

import (
	"net/http"
	"strconv"

	"github.com/phenrril/elegante/internal/cart"
	"github.com/phenrril/elegante/internal/domain"
)

var failCheckout = failure{internal: "Failed to process checkout"}

type checkoutView struct {
	Step    domain.CheckoutStep `json:"step"`
	Summary domain.OrderSummary `json:"summary"`
}

func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	c := s.cartFor(w, r)
	writeJSON(w, http.StatusOK, checkoutView{Step: s.readStep(r, c), Summary: s.checkout.Summary(c)})
}

func (s *Server) apiCheckoutNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	c := s.cartFor(w, r)
	step, err := s.checkout.Next(s.readStep(r, c), c)
	if err != nil {
		writeError(w, r, err, failCheckout)
		return
	}
	s.writeStep(w, step)
	writeJSON(w, http.StatusOK, checkoutView{Step: step, Summary: s.checkout.Summary(c)})
}

func (s *Server) apiCheckoutBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	c := s.cartFor(w, r)
	step, err := s.checkout.Back(s.readStep(r, c))
	if err != nil {
		writeError(w, r, err, failCheckout)
		return
	}
	s.writeStep(w, step)
	writeJSON(w, http.StatusOK, checkoutView{Step: step, Summary: s.checkout.Summary(c)})
}

func (s *Server) apiCheckoutPlace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	c := s.cartFor(w, r)
	conf, err := s.checkout.Place(s.readStep(r, c), c)
	if err != nil {
		writeError(w, r, err, failCheckout)
		return
	}
	s.writeStep(w, domain.StepConfirmation)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order placed",
		"step":    domain.StepConfirmation,
		"order":   conf,
	})
}

// readStep returns the checkout step stored for this client. An empty cart
// always restarts at the review step.
func (s *Server) readStep(r *http.Request, c *cart.Engine) domain.CheckoutStep {
	if len(c.Items()) == 0 {
		return domain.StepCartReview
	}
	ck, err := r.Cookie(checkoutCookie)
	if err != nil {
		return domain.StepCartReview
	}
	payload, err := s.signer.verify(ck.Value)
	if err != nil {
		return domain.StepCartReview
	}
	n, err := strconv.Atoi(string(payload))
	if err != nil || n < int(domain.StepCartReview) || n > int(domain.StepPayment) {
		return domain.StepCartReview
	}
	return domain.CheckoutStep(n)
}

func (s *Server) writeStep(w http.ResponseWriter, step domain.CheckoutStep) {
	ck := &http.Cookie{Name: checkoutCookie, Path: "/", HttpOnly: true, Secure: s.secure, SameSite: http.SameSiteLaxMode}
	if step == domain.StepCartReview || step == domain.StepConfirmation {
		ck.MaxAge = -1
	} else {
		ck.Value = s.signer.sign([]byte(strconv.Itoa(int(step))))
		ck.MaxAge = cookieMaxAge
	}
	http.SetCookie(w, ck)
}
