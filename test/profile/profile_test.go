package profile_test

import (
	"context"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/ivkudzin/unimatch/internal/entity"
	helper_test "github.com/ivkudzin/unimatch/test/helper"
	"gotest.tools/assert"
)

var globalResources *helper_test.TestServerResources

func TestMain(m *testing.M) {
	resources, err := helper_test.SetupTestServer(context.TODO(), 18090)
	var code int

	if err != nil {
		log.Printf("Failed to set up test server: %s", err)
		code = 1
	} else {
		globalResources = resources
		code = m.Run()
	}

	resources.CleanupTestServer()
	os.Exit(code)
}

func upsertRequest(name string) entity.UpsertProfileRequest {
	return entity.UpsertProfileRequest{
		Name:       name,
		Gender:     "female",
		Age:        22,
		City:       "Vienna",
		University: "TU Wien",
		Interests:  []string{"climbing", "go"},
		Goals:      []string{"networking"},
		Bio:        "hello",
	}
}

func TestProfileLifecycle(t *testing.T) {
	userID := helper_test.NewUserID()
	token := globalResources.Token(t, userID)

	created, code := helper_test.UpsertProfile(t, globalResources.BaseURL, token, upsertRequest("Alice"))
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, created.Name, "Alice")
	assert.Equal(t, created.UserID, userID)
	assert.Assert(t, created.ID != 0)

	// Updating keeps the same row.
	update := upsertRequest("Alice B")
	update.Bio = "updated"
	updated, code := helper_test.UpsertProfile(t, globalResources.BaseURL, token, update)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, updated.ID, created.ID)
	assert.Equal(t, updated.Name, "Alice B")
	assert.Equal(t, updated.Bio, "updated")

	req, err := http.NewRequest(http.MethodDelete, globalResources.BaseURL+"/v1/profiles/me", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	getReq, err := http.NewRequest(http.MethodGet, globalResources.BaseURL+"/v1/profiles/me", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	getReq.Header.Set("Authorization", "Bearer "+token)
	getResp, err := http.DefaultClient.Do(getReq)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	getResp.Body.Close()
	assert.Equal(t, getResp.StatusCode, http.StatusNotFound)
}

func TestProfileReactivation(t *testing.T) {
	userID := helper_test.NewUserID()
	token := globalResources.Token(t, userID)

	created, _ := helper_test.UpsertProfile(t, globalResources.BaseURL, token, upsertRequest("Bob"))

	req, err := http.NewRequest(http.MethodDelete, globalResources.BaseURL+"/v1/profiles/me", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %s", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %s", err)
	}
	resp.Body.Close()

	// Upserting after delete reactivates the same row.
	revived, code := helper_test.UpsertProfile(t, globalResources.BaseURL, token, upsertRequest("Bob"))
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, revived.ID, created.ID)

	var stored entity.Profile
	if err := globalResources.ORM.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("Failed to load profile: %s", err)
	}
	assert.Equal(t, stored.IsActive, true)
	assert.Assert(t, stored.DeletedAt == nil)
}

func TestProfileValidation(t *testing.T) {
	token := globalResources.Token(t, helper_test.NewUserID())

	underage := upsertRequest("Kid")
	underage.Age = 14
	_, code := helper_test.UpsertProfile(t, globalResources.BaseURL, token, underage)
	assert.Equal(t, code, http.StatusBadRequest)

	badGender := upsertRequest("X")
	badGender.Gender = "unknown"
	_, code = helper_test.UpsertProfile(t, globalResources.BaseURL, token, badGender)
	assert.Equal(t, code, http.StatusBadRequest)
}

func TestFeedExcludesSelfAndSwiped(t *testing.T) {
	seeded, err := helper_test.PopulateProfiles(globalResources.ORM, 3)
	if err != nil {
		t.Fatalf("Failed to populate profiles: %s", err)
	}

	userID := helper_test.NewUserID()
	token := globalResources.Token(t, userID)
	own, _ := helper_test.UpsertProfile(t, globalResources.BaseURL, token, upsertRequest("Viewer"))

	_, code := helper_test.Swipe(t, globalResources.BaseURL, token, seeded[0].ID, "like")
	assert.Equal(t, code, http.StatusOK)

	feed := helper_test.GetProfiles(t, globalResources.BaseURL, token, "/v1/profiles")

	ids := make(map[int64]bool, len(feed))
	for _, p := range feed {
		ids[p.ID] = true
	}

	assert.Assert(t, !ids[own.ID], "feed must not contain the viewer")
	assert.Assert(t, !ids[seeded[0].ID], "feed must not contain swiped profiles")
	assert.Assert(t, ids[seeded[1].ID])
	assert.Assert(t, ids[seeded[2].ID])
}

func TestFeedEmptyWithoutOwnProfile(t *testing.T) {
	if _, err := helper_test.PopulateProfiles(globalResources.ORM, 2); err != nil {
		t.Fatalf("Failed to populate profiles: %s", err)
	}

	token := globalResources.Token(t, helper_test.NewUserID())
	feed := helper_test.GetProfiles(t, globalResources.BaseURL, token, "/v1/profiles")

	assert.Equal(t, len(feed), 0)
}
