package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitweek/fitweek/internal/plan"
)

func TestRemote_Success(t *testing.T) {
	want := &plan.WeekPlan{
		Days:    []plan.PlanDay{{Day: "Monday", Focus: "Push", CaloriesBurned: 300}},
		Summary: "remote plan",
	}

	var gotReq remoteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		require.NoError(t, json.NewEncoder(w).Encode(want))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, server.Client())
	got, err := remote.Generate(context.Background(), baseProfile("Monday"), 24.7)
	require.NoError(t, err)

	assert.Equal(t, "remote plan", got.Summary)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "Monday", got.Days[0].Day)

	assert.Equal(t, "alex", gotReq.UserData.Name, "profile travels in user_data")
	assert.InDelta(t, 24.7, gotReq.BMI, 0.001)
}

func TestRemote_NonOKStatusIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	remote := NewRemote(server.URL, server.Client())
	_, err := remote.Generate(context.Background(), baseProfile("Monday"), 24.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRemote_MalformedBodyIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	remote := NewRemote(server.URL, server.Client())
	_, err := remote.Generate(context.Background(), baseProfile("Monday"), 24.7)
	assert.Error(t, err)
}

func TestRemote_EmptyPlanIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&plan.WeekPlan{Summary: "no days"})
	}))
	defer server.Close()

	remote := NewRemote(server.URL, server.Client())
	_, err := remote.Generate(context.Background(), baseProfile("Monday"), 24.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty plan")
}

func TestRemote_ConnectionRefusedIsFailure(t *testing.T) {
	remote := NewRemote("http://127.0.0.1:1", nil)
	_, err := remote.Generate(context.Background(), baseProfile("Monday"), 24.7)
	assert.Error(t, err)
}
