package lms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumirror/mirror-api/internal/models"
	"github.com/edumirror/mirror-api/pkg/config"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.LMSConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		PerPage: 2,
		Timeout: 5 * time.Second,
	}, nil)
	return client, srv
}

func TestListTabsWalksLinkHeaderPagination(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/7/tabs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/courses/7/tabs?page=2>; rel="next", <%s/courses/7/tabs?page=1>; rel="current"`, srv.URL, srv.URL))
			_ = json.NewEncoder(w).Encode([]models.Tab{{ID: "home", Label: "Home"}, {ID: "assignments", Label: "Assignments"}})
		case "2":
			_ = json.NewEncoder(w).Encode([]models.Tab{{ID: "grades", Label: "Grades"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client, server := newTestClient(t, mux)
	srv = server

	tabs, err := client.ListTabs(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, tabs, 3)
	require.Equal(t, "home", tabs[0].ID)
	require.Equal(t, "grades", tabs[2].ID)
	for _, tab := range tabs {
		require.EqualValues(t, 7, tab.CourseID)
	}
}

func TestListTabsFailsFastOnLaterPage(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/courses/7/tabs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/courses/7/tabs?page=2>; rel="next"`, srv.URL))
		_ = json.NewEncoder(w).Encode([]models.Tab{{ID: "home"}})
	})
	client, server := newTestClient(t, mux)
	srv = server

	tabs, err := client.ListTabs(context.Background(), 7)
	require.Error(t, err)
	require.Nil(t, tabs)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrTransport.Code, appErr.Code)
}

func TestGetCourseTransportFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	course, err := client.GetCourse(context.Background(), 44)
	require.Error(t, err)
	require.Nil(t, course)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, appErrors.ErrTransport.Code, appErr.Code)
}

func TestGetFrontPageAbsentIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	page, err := client.GetFrontPage(context.Background(), 44)
	require.NoError(t, err)
	require.Nil(t, page)
}

func TestNextLink(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"next present", `<https://lms.test/api/v1/courses?page=2>; rel="next", <https://lms.test/api/v1/courses?page=1>; rel="first"`, "https://lms.test/api/v1/courses?page=2"},
		{"no next", `<https://lms.test/api/v1/courses?page=1>; rel="first"`, ""},
		{"malformed", "not-a-link-header", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, nextLink(tc.header))
		})
	}
}
