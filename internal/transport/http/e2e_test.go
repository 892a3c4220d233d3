package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cachemem "github.com/Gunvolt24/fx_deals/internal/cache/memory"
	memrepo "github.com/Gunvolt24/fx_deals/internal/repo/memory"
	rest "github.com/Gunvolt24/fx_deals/internal/transport/http"
	"github.com/Gunvolt24/fx_deals/internal/usecase"
	"github.com/Gunvolt24/fx_deals/pkg/validate"
)

// newE2E — полный стек на хранилище в памяти.
func newE2E(t *testing.T) (*httptest.Server, *memrepo.DealRepository) {
	t.Helper()

	repo := memrepo.NewDealRepository()
	svc := usecase.NewDealService(repo, cachemem.NewLRUCacheTTL(100, time.Minute), noopLogger{}, validate.NewDealValidator())
	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(svc, noopLogger{}, 2*time.Second), "", ""))
	t.Cleanup(ts.Close)
	return ts, repo
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, got
}

func TestE2E_ImportSingle_EchoesFullPrecision(t *testing.T) {
	ts, repo := newE2E(t)

	resp, got := post(t, ts.URL+"/api/v1/deals/import/single", singleBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("want 201, got %d: %v", resp.StatusCode, got)
	}

	want := map[string]any{
		"dealId":        "DEAL-001",
		"fromCurrency":  "USD",
		"toCurrency":    "EUR",
		"dealTimestamp": "2024-11-16 10:30:00",
		"dealAmount":    json.Number("1000.50"),
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s: got %v (%T), want %v", k, got[k], got[k], v)
		}
	}

	n, _ := repo.Count(context.Background())
	if n != 1 {
		t.Fatalf("want 1 stored deal, got %d", n)
	}
}

func TestE2E_ImportSingle_InvalidAmount_NoWrite(t *testing.T) {
	ts, repo := newE2E(t)

	body := strings.Replace(singleBody, `"1000.50"`, `"invalid-amount"`, 1)
	resp, got := post(t, ts.URL+"/api/v1/deals/import/single", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}

	rejected, _ := got["rejectedDeal"].(map[string]any)
	msgs, _ := rejected["validationMsgs"].([]any)
	found := false
	for _, m := range msgs {
		if m == validate.MsgAmountFormat {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", validate.MsgAmountFormat, msgs)
	}

	n, _ := repo.Count(context.Background())
	if n != 0 {
		t.Fatalf("store must be unchanged, got %d deals", n)
	}
}

func TestE2E_ImportSingle_HugeExponent_RejectedQuickly(t *testing.T) {
	ts, repo := newE2E(t)

	for _, amount := range []string{"1E100000000", "1E-1000000000"} {
		body := strings.Replace(singleBody, `"1000.50"`, `"`+amount+`"`, 1)

		start := time.Now()
		resp, got := post(t, ts.URL+"/api/v1/deals/import/single", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", amount, resp.StatusCode)
		}
		if took := time.Since(start); took > time.Second {
			t.Fatalf("%s: rejection took %s", amount, took)
		}

		rejected, _ := got["rejectedDeal"].(map[string]any)
		msgs, _ := rejected["validationMsgs"].([]any)
		if len(msgs) != 1 || msgs[0] != validate.MsgAmountFormat {
			t.Fatalf("%s: got %v, want [%q]", amount, msgs, validate.MsgAmountFormat)
		}
	}

	n, _ := repo.Count(context.Background())
	if n != 0 {
		t.Fatalf("store must be unchanged, got %d deals", n)
	}
}

func TestE2E_ImportSingle_DuplicateRejected(t *testing.T) {
	ts, _ := newE2E(t)

	if resp, _ := post(t, ts.URL+"/api/v1/deals/import/single", singleBody); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first import: want 201, got %d", resp.StatusCode)
	}

	resp, got := post(t, ts.URL+"/api/v1/deals/import/single", singleBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second import: want 400, got %d", resp.StatusCode)
	}
	rejected, _ := got["rejectedDeal"].(map[string]any)
	msgs, _ := rejected["validationMsgs"].([]any)
	if len(msgs) != 1 || msgs[0] != "Deal with id DEAL-001 already exists" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestE2E_Batch_IntraBatchDuplicate_ThenList(t *testing.T) {
	ts, _ := newE2E(t)

	other := strings.Replace(singleBody, "DEAL-001", "DEAL-002", 1)
	resp, got := post(t, ts.URL+"/api/v1/deals/import/batch", "["+singleBody+","+other+","+singleBody+"]")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	if got["error"] != "Some fx deals in the batch failed to be validated" {
		t.Fatalf("unexpected error: %v", got["error"])
	}
	saved, _ := got["savedDeals"].([]any)
	rejected, _ := got["rejectedDeals"].([]any)
	if len(saved) != 2 || len(rejected) != 1 {
		t.Fatalf("want 2 saved / 1 rejected, got %d / %d", len(saved), len(rejected))
	}

	listResp, err := http.Get(ts.URL + "/api/v1/deals")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer listResp.Body.Close()

	var list []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0]["dealId"] != "DEAL-001" || list[1]["dealId"] != "DEAL-002" {
		t.Fatalf("unexpected list: %v", list)
	}
}
