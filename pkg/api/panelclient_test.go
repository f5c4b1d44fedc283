package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectWith writes the panel's failure shape: a 303 to the safe parent
// page with the messages in the body.
func redirectWith(w http.ResponseWriter, location string, messages ...Message) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
	json.NewEncoder(w).Encode(MessagesRsp{Messages: messages})
}

func newTestPanel(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestDeleteProjectFailureSurfacesRedirectMessage(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/projects/t1", r.URL.Path)
		redirectWith(w, "/projects", ErrorMessage("Unable to delete project."))
	})

	err := client.DeleteProject(context.Background(), "t1")
	require.Error(t, err)
	assert.EqualError(t, err, "Unable to delete project.")
}

func TestDeleteProjectSuccess(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(MessagesRsp{
			Messages: []Message{SuccessMessage("Successfully deleted project.")},
		})
	})

	require.NoError(t, client.DeleteProject(context.Background(), "t1"))
}

func TestRemoveUserFailureSurfacesRedirectMessage(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/projects/t1/users/u1", r.URL.Path)
		redirectWith(w, "/projects/t1/users", ErrorMessage("Unable to remove user from project."))
	})

	err := client.RemoveUser(context.Background(), "t1", "u1")
	require.Error(t, err)
	assert.EqualError(t, err, "Unable to remove user from project.")
}

func TestAddUserFailureSurfacesRedirectMessage(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		redirectWith(w, "/projects/t1/users", ErrorMessage("Unable to add user to project."))
	})

	_, err := client.AddUser(context.Background(), "t1", "u1", "r1")
	require.Error(t, err)
	assert.EqualError(t, err, "Unable to add user to project.")
}

func TestAddUserSuccessKeepsRedirectBody(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req AddUserReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "r1", req.RoleID)
		redirectWith(w, "/projects/t1/users", SuccessMessage("Successfully added user to project."))
	})

	rsp, err := client.AddUser(context.Background(), "t1", "u1", "r1")
	require.NoError(t, err)
	require.Len(t, rsp.Messages, 1)
	assert.Equal(t, SeveritySuccess, rsp.Messages[0].Severity)
}

func TestGetProjectFailureSurfacesRedirectMessage(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		redirectWith(w, "/projects", ErrorMessage("Unable to retrieve project information."))
	})

	_, err := client.GetProject(context.Background(), "t1")
	require.Error(t, err)
	assert.EqualError(t, err, "Unable to retrieve project information.")
}

func TestErrorEnvelopeStillParsed(t *testing.T) {
	client := newTestPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"role_id is required"}`))
	})

	_, err := client.AddUser(context.Background(), "t1", "u1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role_id is required")
}
