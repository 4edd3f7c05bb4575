package toolserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BankBrain/internal/domain/models"
)

func TestListTransactionsSendsToolCall(t *testing.T) {
	var got models.ToolCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tool" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"list_transactions","result":[{"id":"tx1","amount":-50.5,"date":"2024-01-02","description":"Withdrawal"},"junk",{"id":"tx2","amount":"abc"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second)
	resp, err := c.ListTransactions(context.Background(), "user7", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var args models.ListTransactionsArgs
	if err := got.DecodeArgs(&args); err != nil {
		t.Fatalf("decode args: %v", err)
	}
	if got.Name != models.ToolListTransactions || args.UserID != "user7" || args.SinceDays != 1 {
		t.Fatalf("unexpected call %+v args %+v", got, args)
	}

	txs, err := resp.Transactions()
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].AbsAmount() != 50.5 {
		t.Fatalf("unexpected amount %v", txs[0].AbsAmount())
	}
	if !txs[1].Amount.IsZero() {
		t.Fatalf("expected malformed amount to be zero, got %v", txs[1].Amount)
	}
}

func TestListTransactionsToolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"list_transactions","error":"connection refused"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, time.Second).ListTransactions(context.Background(), "user1", 30)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if _, err := resp.Transactions(); err == nil {
		t.Fatalf("expected tool error")
	}
}

func TestCallTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := New(url, time.Second).ListTransactions(context.Background(), "user1", 1); err == nil {
		t.Fatalf("expected error for closed server")
	}
}
