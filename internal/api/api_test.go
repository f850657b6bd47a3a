package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/app/encounter"
	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/app/notify"
	"github.com/ecoquest-app/ecoquest/internal/app/verify"
	"github.com/ecoquest-app/ecoquest/internal/app/wallet"
	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

// goodMeta is comfortably above the 2 MP quality threshold.
var goodMeta = domain.ImageMeta{Width: 1920, Height: 1080}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	lgr := ledger.New(db)
	t.Cleanup(lgr.Close)
	w := wallet.NewService(db)
	spawner := encounter.NewWithRand(lgr, w, rand.New(rand.NewSource(7)), time.Now)

	scorer := verify.New(
		verify.FixedClassifier{"before.jpg": true, "after.jpg": false},
		verify.StaticMetaReader{"before.jpg": goodMeta, "after.jpg": goodMeta},
		verify.WithRand(rand.New(rand.NewSource(7))),
		verify.WithSleep(func(time.Duration) {}),
	)

	// Fixed midday clock keeps notifications out of quiet hours.
	midday := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	notifier := notify.NewServiceWithPolicy(db, domain.DefaultNotificationPolicy(),
		func() time.Time { return midday })
	srv := NewServer(lgr, spawner, scorer, notifier, w, "test")

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return body
}

func postJSON(t *testing.T, url string, payload any, wantStatus int) map[string]any {
	t.Helper()
	blob, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return body
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)

	health := getJSON(t, ts.URL+"/health", http.StatusOK)
	if health["status"] != "ok" {
		t.Errorf("health status = %v, want ok", health["status"])
	}

	version := getJSON(t, ts.URL+"/api/version", http.StatusOK)
	if version["version"] != "test" {
		t.Errorf("version = %v, want test", version["version"])
	}
}

func TestLevelsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := getJSON(t, ts.URL+"/api/levels", http.StatusOK)
	levels, ok := body["levels"].([]any)
	if !ok || len(levels) != 10 {
		t.Fatalf("levels = %v, want 10 entries", body["levels"])
	}
}

func TestAddXPEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := postJSON(t, ts.URL+"/api/ledger/xp",
		map[string]any{"amount": 300, "source": "MISSION"}, http.StatusOK)

	events, _ := body["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("events = %v, want one level_up", body["events"])
	}

	snap := getJSON(t, ts.URL+"/api/ledger", http.StatusOK)
	if got := snap["total_xp"].(float64); got != 300 {
		t.Errorf("total_xp = %v, want 300", got)
	}
}

func TestAddXPRejectsBadAmount(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/ledger/xp",
		map[string]any{"amount": -10, "source": "MISSION"}, http.StatusBadRequest)
}

func TestEncounterFlow(t *testing.T) {
	ts := newTestServer(t)

	body := getJSON(t, ts.URL+"/api/encounters?lat=37.77&lng=-122.41", http.StatusOK)
	encounters, _ := body["encounters"].([]any)
	if len(encounters) < 1 || len(encounters) > 3 {
		t.Fatalf("spawned %d encounters, want 1–3", len(encounters))
	}

	first := encounters[0].(map[string]any)
	id := first["id"].(string)

	// A second listing must not respawn while encounters are live.
	again := getJSON(t, ts.URL+"/api/encounters?lat=37.77&lng=-122.41", http.StatusOK)
	if got := len(again["encounters"].([]any)); got != len(encounters) {
		t.Errorf("second listing = %d encounters, want %d", got, len(encounters))
	}

	claim := postJSON(t, ts.URL+"/api/encounters/"+id+"/complete", nil, http.StatusOK)
	reward, _ := claim["reward"].(map[string]any)
	if reward["xp"].(float64) <= 0 {
		t.Errorf("reward = %v, want positive xp", claim["reward"])
	}

	// Double claim conflicts.
	postJSON(t, ts.URL+"/api/encounters/"+id+"/complete", nil, http.StatusConflict)
}

func TestCompleteUnknownEncounterConflicts(t *testing.T) {
	ts := newTestServer(t)
	postJSON(t, ts.URL+"/api/encounters/nope/complete", nil, http.StatusConflict)
}

func TestVerifyEndpointAwardsXP(t *testing.T) {
	ts := newTestServer(t)

	sub := domain.CleanupSubmission{
		BeforeImage: "before.jpg",
		AfterImage:  "after.jpg",
		MissionID:   "m-1",
		Location:    &domain.Coordinate{Latitude: 37.77, Longitude: -122.41, Accuracy: 10},
		Timestamp:   time.Now(),
	}
	body := postJSON(t, ts.URL+"/api/verify", sub, http.StatusOK)

	result := body["result"].(map[string]any)
	if result["verified"] != true {
		t.Fatalf("verified = %v, want true (confidence %v)", result["verified"], result["confidence"])
	}
	if got := body["xp"].(float64); got != 150 {
		t.Errorf("xp = %v, want 150", got)
	}

	events, _ := body["events"].([]any)
	var sawVerified bool
	for _, e := range events {
		if e.(map[string]any)["kind"] == string(domain.EventCleanupVerified) {
			sawVerified = true
		}
	}
	if !sawVerified {
		t.Errorf("events = %v, want a cleanup_verified event", body["events"])
	}

	snap := getJSON(t, ts.URL+"/api/ledger", http.StatusOK)
	if got := snap["total_xp"].(float64); got != 150 {
		t.Errorf("total_xp = %v, want 150", got)
	}
}

func TestVerifyStoresVerifiedNotification(t *testing.T) {
	ts := newTestServer(t)

	sub := domain.CleanupSubmission{
		BeforeImage: "before.jpg",
		AfterImage:  "after.jpg",
		MissionID:   "m-1",
		Location:    &domain.Coordinate{Latitude: 37.77, Longitude: -122.41, Accuracy: 10},
		Timestamp:   time.Now(),
	}
	postJSON(t, ts.URL+"/api/verify", sub, http.StatusOK)

	body := getJSON(t, ts.URL+"/api/notifications", http.StatusOK)
	notifs, _ := body["notifications"].([]any)

	var sawVerified bool
	for _, n := range notifs {
		if n.(map[string]any)["type"] == string(domain.NotifyVerified) {
			sawVerified = true
		}
	}
	if !sawVerified {
		t.Errorf("notifications = %v, want one of type cleanup_verified", body["notifications"])
	}
}

func TestVerifyEndpointUnreadableStill200(t *testing.T) {
	ts := newTestServer(t)

	sub := domain.CleanupSubmission{
		BeforeImage: "missing.jpg",
		AfterImage:  "after.jpg",
		Timestamp:   time.Now(),
	}
	body := postJSON(t, ts.URL+"/api/verify", sub, http.StatusOK)

	result := body["result"].(map[string]any)
	if result["verified"] != false {
		t.Errorf("verified = %v, want false", result["verified"])
	}
	if got := body["xp"].(float64); got != 0 {
		t.Errorf("xp = %v, want 0", got)
	}
}

func TestBadgeEndpoints(t *testing.T) {
	ts := newTestServer(t)

	earn := postJSON(t, ts.URL+"/api/badges/first_cleanup/earn", nil, http.StatusOK)
	if earn["earned"] != true {
		t.Errorf("earned = %v, want true", earn["earned"])
	}
	again := postJSON(t, ts.URL+"/api/badges/first_cleanup/earn", nil, http.StatusOK)
	if again["earned"] != false {
		t.Errorf("re-earn = %v, want false", again["earned"])
	}
}

func TestCompleteAchievementAppliesReward(t *testing.T) {
	ts := newTestServer(t)

	body := postJSON(t, ts.URL+"/api/achievements/missions_1/complete", nil, http.StatusOK)
	if body["completed"] != true {
		t.Fatalf("completed = %v, want true", body["completed"])
	}

	// The declared 50 XP reward is applied at this boundary.
	snap := getJSON(t, ts.URL+"/api/ledger", http.StatusOK)
	if got := snap["total_xp"].(float64); got != 50 {
		t.Errorf("total_xp = %v, want 50", got)
	}
}

func TestWalletEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := getJSON(t, ts.URL+"/api/wallet", http.StatusOK)
	if got := body["leaves"].(float64); got != 0 {
		t.Errorf("leaves = %v, want 0", got)
	}

	// Claiming an encounter pays leaves into the wallet.
	spawned := getJSON(t, ts.URL+"/api/encounters?lat=37.77&lng=-122.41", http.StatusOK)
	first := spawned["encounters"].([]any)[0].(map[string]any)
	id := first["id"].(string)
	wantLeaves := first["reward"].(map[string]any)["leaves"].(float64)

	postJSON(t, ts.URL+"/api/encounters/"+id+"/complete", nil, http.StatusOK)

	body = getJSON(t, ts.URL+"/api/wallet", http.StatusOK)
	if got := body["leaves"].(float64); got != wantLeaves {
		t.Errorf("leaves = %v, want %v", got, wantLeaves)
	}

	history := getJSON(t, ts.URL+"/api/wallet/history", http.StatusOK)
	entries, _ := history["entries"].([]any)
	if len(entries) != 1 {
		t.Errorf("history = %d entries, want 1", len(entries))
	}
}

func TestLedgerReset(t *testing.T) {
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/ledger/xp", map[string]any{"amount": 500, "source": "MISSION"}, http.StatusOK)
	body := postJSON(t, ts.URL+"/api/ledger/reset", nil, http.StatusOK)
	if got := body["total_xp"].(float64); got != 0 {
		t.Errorf("total_xp after reset = %v, want 0", got)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// A level-up publishes a pending notification (unless quiet hours).
	postJSON(t, ts.URL+"/api/ledger/xp", map[string]any{"amount": 300, "source": "MISSION"}, http.StatusOK)

	body := getJSON(t, ts.URL+"/api/notifications", http.StatusOK)
	notifs, _ := body["notifications"].([]any)
	if len(notifs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifs))
	}
	n := notifs[0].(map[string]any)
	id := int64(n["id"].(float64))
	postJSON(t, fmt.Sprintf("%s/api/notifications/%d/shown", ts.URL, id), nil, http.StatusOK)

	body = getJSON(t, ts.URL+"/api/notifications", http.StatusOK)
	if remaining, _ := body["notifications"].([]any); len(remaining) != 0 {
		t.Errorf("notifications after shown = %d, want 0", len(remaining))
	}
}
