package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/neomorfeo/roomstay/internal/adapter/stripe"
	"github.com/neomorfeo/roomstay/internal/domain"
)

func TestCreateIntent(t *testing.T) {
	var gotForm string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		gotForm = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "pi_123",
			"client_secret": "pi_123_secret_abc",
			"amount": 45000,
			"currency": "eur",
			"status": "requires_payment_method"
		}`))
	}))
	defer srv.Close()

	client := stripe.New("sk_test_xyz", stripe.WithBaseURL(srv.URL))
	intent, err := client.CreateIntent(context.Background(), 45000, "eur", map[string]string{"booking_id": "bkg-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if intent.ID != "pi_123" {
		t.Errorf("ID = %q, want pi_123", intent.ID)
	}
	if intent.Amount != 45000 {
		t.Errorf("Amount = %d, want 45000", intent.Amount)
	}
	if intent.Status != domain.IntentRequiresPayment {
		t.Errorf("Status = %q, want %q", intent.Status, domain.IntentRequiresPayment)
	}
	if intent.ClientSecret != "pi_123_secret_abc" {
		t.Errorf("ClientSecret = %q", intent.ClientSecret)
	}

	if gotAuth != "Bearer sk_test_xyz" {
		t.Errorf("Authorization = %q, want bearer secret key", gotAuth)
	}
	for _, want := range []string{"amount=45000", "currency=eur", "metadata%5Bbooking_id%5D=bkg-1"} {
		if !strings.Contains(gotForm, want) {
			t.Errorf("form body missing %q, got %q", want, gotForm)
		}
	}
}

func TestRetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/payment_intents/pi_123" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "pi_123",
			"amount": 45000,
			"currency": "eur",
			"status": "succeeded"
		}`))
	}))
	defer srv.Close()

	client := stripe.New("sk_test_xyz", stripe.WithBaseURL(srv.URL))
	intent, err := client.RetrieveIntent(context.Background(), "pi_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intent.Status != domain.IntentSucceeded {
		t.Errorf("Status = %q, want %q", intent.Status, domain.IntentSucceeded)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"type": "card_error", "code": "card_declined", "message": "Your card was declined."}}`))
	}))
	defer srv.Close()

	client := stripe.New("sk_test_xyz", stripe.WithBaseURL(srv.URL))
	_, err := client.CreateIntent(context.Background(), 45000, "eur", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Your card was declined.") {
		t.Errorf("error should carry the API message, got %q", err.Error())
	}
}
