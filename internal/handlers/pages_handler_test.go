package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Тест: карта без авторизации — редирект на логин
func TestMapPage_RequiresAuth(t *testing.T) {
	router, store := newTestRouter(t, &mockLocationRepo{})

	req := httptest.NewRequest(http.MethodGet, "/map", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	// неавторизованная (но существующая) сессия тоже не проходит
	sess := store.Create()
	req = httptest.NewRequest(http.MethodGet, "/map?sessionId="+sess.ID, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestMapPage_Authenticated(t *testing.T) {
	router, store := newTestRouter(t, &mockLocationRepo{})
	id := authedID(store)

	req := httptest.NewRequest(http.MethodGet, "/map?sessionId="+id, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), id, "map page embeds the session id")
}

func TestAdminPage_ShowsCount(t *testing.T) {
	repoMock := &mockLocationRepo{}
	repoMock.On("Count", mock.Anything).Return(int64(12), nil)
	router, store := newTestRouter(t, repoMock)
	id := authedID(store)

	req := httptest.NewRequest(http.MethodGet, "/admin?sessionId="+id, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "12")
}

func TestAdmin_FixAndReset(t *testing.T) {
	repoMock := &mockLocationRepo{}
	repoMock.On("Fix", mock.Anything).Return(nil)
	repoMock.On("Reset", mock.Anything).Return(nil)
	router, store := newTestRouter(t, repoMock)
	id := authedID(store)

	req := httptest.NewRequest(http.MethodPost, "/admin/fix-database?sessionId="+id, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	repoMock.AssertCalled(t, "Fix", mock.Anything)

	req = httptest.NewRequest(http.MethodPost, "/admin/reset-database?sessionId="+id, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusFound, rr.Code)
	repoMock.AssertCalled(t, "Reset", mock.Anything)
}

// Тест: fix/reset без авторизации не трогают базу
func TestAdmin_ActionsRequireAuth(t *testing.T) {
	repoMock := &mockLocationRepo{}
	router, _ := newTestRouter(t, repoMock)

	for _, path := range []string{"/admin/fix-database", "/admin/reset-database"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusFound, rr.Code, path)
	}

	repoMock.AssertNotCalled(t, "Fix", mock.Anything)
	repoMock.AssertNotCalled(t, "Reset", mock.Anything)
}
