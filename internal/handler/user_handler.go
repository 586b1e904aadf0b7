package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新しいユーザーを登録する。
	Register(ctx context.Context, input user.RegisterInput) (*model.User, error)
	// Get は指定IDのユーザーを返す。
	Get(ctx context.Context, id string) (*model.User, error)
	// List は全ユーザーの一覧を返す。
	List(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザーディレクトリのHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerUserRequest はユーザー登録リクエストのボディ。
// 注文実績は登録時にゼロで初期化されるため、入力には含めない。
type registerUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	TotalOrders     int       `json:"total_orders"`
	TotalSpentCents int64     `json:"total_spent_cents"`
	TotalSpent      string    `json:"total_spent"`
	CreatedAt       time.Time `json:"created_at"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		TotalOrders:     u.TotalOrders,
		TotalSpentCents: u.TotalSpentCents,
		TotalSpent:      model.FormatCents(u.TotalSpentCents),
		CreatedAt:       u.CreatedAt,
	}
}

// RegisterUser は新しいユーザーを登録する。
// POST /api/users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	u, err := h.service.Register(r.Context(), user.RegisterInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toUserResponse(u))
}

// GetUser は指定IDのユーザーを取得する。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(u))
}

// ListUsers は全ユーザーの一覧を取得する。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
