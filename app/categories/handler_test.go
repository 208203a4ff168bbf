package categories

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmarket/market-api/models"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	CreateErr  error
	ListErr    error
	UpdateErr  error
	DeleteErr  error
	LastSaved  *models.Category
	Deleted    []uint
}

func (m *MockCategoryRepo) GetAllCategories() ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) CreateCategory(cat *models.Category) error {
	m.LastSaved = cat
	return m.CreateErr
}

func (m *MockCategoryRepo) UpdateCategory(cat *models.Category) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.LastSaved = cat
	return nil
}

func (m *MockCategoryRepo) DeleteCategory(id uint) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

// --- Tests: GET /categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with multiple categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{
						{ID: 1, Name: "Books"},
						{ID: 2, Name: "Shoes"},
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, uint(1), resp[0].ID)
				assert.Equal(t, "Shoes", resp[1].Name)
			},
		},
		{
			name: "Success with empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 0)
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					ListErr: errors.New("db down"),
				}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "failed to fetch categories", strings.TrimSpace(rec.Body.String()))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("GET", "/categories", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetAll(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

// --- Tests: POST /categories ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name:        "Success",
			requestBody: `{"name":"Accessories"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved)
				assert.Equal(t, "Accessories", repo.LastSaved.Name)
			},
		},
		{
			name:        "Invalid JSON body",
			requestBody: `{invalid json`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "CreateCategory should not be called with invalid JSON")
			},
		},
		{
			name:        "Missing name",
			requestBody: `{}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved, "CreateCategory should not be called with missing fields")
			},
		},
		{
			name:        "Repository error on create",
			requestBody: `{"name":"Toys"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.NotNil(t, repo.LastSaved, "CreateCategory should have been called")
				assert.Equal(t, "Toys", repo.LastSaved.Name)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("POST", "/categories", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)

			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: PUT/DELETE /categories/{id} ---

func TestHandleUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := &MockCategoryRepo{}
		handler := NewCategoryHandler(mockRepo)
		req := httptest.NewRequest("PUT", "/categories/3", strings.NewReader(`{"name":"Updated"}`))
		req.SetPathValue("id", "3")
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, mockRepo.LastSaved)
		assert.Equal(t, uint(3), mockRepo.LastSaved.ID)
		assert.Equal(t, "Updated", mockRepo.LastSaved.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := &MockCategoryRepo{UpdateErr: models.ErrCategoryNotFound}
		handler := NewCategoryHandler(mockRepo)
		req := httptest.NewRequest("PUT", "/categories/99", strings.NewReader(`{"name":"X"}`))
		req.SetPathValue("id", "99")
		rec := httptest.NewRecorder()

		handler.HandleUpdate(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockRepo := &MockCategoryRepo{}
		handler := NewCategoryHandler(mockRepo)
		req := httptest.NewRequest("DELETE", "/categories/3", nil)
		req.SetPathValue("id", "3")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []uint{3}, mockRepo.Deleted)
	})

	t.Run("Not found", func(t *testing.T) {
		mockRepo := &MockCategoryRepo{DeleteErr: models.ErrCategoryNotFound}
		handler := NewCategoryHandler(mockRepo)
		req := httptest.NewRequest("DELETE", "/categories/99", nil)
		req.SetPathValue("id", "99")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
