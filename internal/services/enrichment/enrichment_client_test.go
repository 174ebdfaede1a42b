package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchEnrichmentDecodesModernPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees/100042" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hr-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"th_first_name":"สมชาย","en_first_name":"Somchai","email":"somchai@example.com","plant":"Plant 1"}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, "hr-token")
	fields := client.FetchEnrichment(context.Background(), "100042")
	if fields == nil {
		t.Fatal("expected fields from a 200 response")
	}
	if fields.THFirstName != "สมชาย" || fields.ENFirstName != "Somchai" {
		t.Errorf("names not decoded: %+v", fields)
	}
	if fields.Email != "somchai@example.com" || fields.Plant != "Plant 1" {
		t.Errorf("contact fields not decoded: %+v", fields)
	}
	if len(fields.Raw) == 0 {
		t.Error("expected the raw payload to be retained")
	}
}

func TestFetchEnrichmentDecodesLegacyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"firstname_en":"Somchai","lastname_en":"Jaidee","user_email":"somchai@example.com","department_name":"Quality","plant_name":"Plant 2"}}`))
	}))
	defer server.Close()

	client := NewClientWithBase(server.URL, "")
	fields := client.FetchEnrichment(context.Background(), "100042")
	if fields == nil {
		t.Fatal("expected fields from an enveloped legacy payload")
	}
	if fields.ENFirstName != "Somchai" || fields.ENLastName != "Jaidee" {
		t.Errorf("legacy name keys not mapped: %+v", fields)
	}
	if fields.Email != "somchai@example.com" || fields.Department != "Quality" || fields.Plant != "Plant 2" {
		t.Errorf("legacy keys not mapped: %+v", fields)
	}
}

func TestFetchEnrichmentFailuresReturnNil(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	if fields := NewClientWithBase(notFound.URL, "").FetchEnrichment(context.Background(), "100042"); fields != nil {
		t.Errorf("non-200 response must yield nil, got %+v", fields)
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer garbage.Close()

	if fields := NewClientWithBase(garbage.URL, "").FetchEnrichment(context.Background(), "100042"); fields != nil {
		t.Errorf("undecodable body must yield nil, got %+v", fields)
	}

	if fields := NewClientWithBase("", "").FetchEnrichment(context.Background(), "100042"); fields != nil {
		t.Error("unconfigured client must yield nil")
	}
	if fields := NewClientWithBase(notFound.URL, "").FetchEnrichment(context.Background(), ""); fields != nil {
		t.Error("blank user code must yield nil without a request")
	}
}

func TestParseRawPrefersModernKeys(t *testing.T) {
	fields := ParseRaw([]byte(`{"email":"new@example.com","user_email":"old@example.com"}`))
	if fields == nil {
		t.Fatal("expected fields")
	}
	if fields.Email != "new@example.com" {
		t.Errorf("modern key must win over legacy, got %q", fields.Email)
	}
}

func TestParseRawInvalidJSON(t *testing.T) {
	if fields := ParseRaw([]byte(`[1,2,3]`)); fields != nil {
		t.Errorf("non-object payload must yield nil, got %+v", fields)
	}
	if fields := ParseRaw([]byte(`not json`)); fields != nil {
		t.Errorf("invalid payload must yield nil, got %+v", fields)
	}
}
