// Package user はユーザーディレクトリのドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/memberclub/internal/model"
	"github.com/hitoshi/memberclub/internal/repository"
)

// Service はユーザーディレクトリのサービス層。
type Service struct {
	userRepo  repository.UserRepository
	sanitizer *bluemonday.Policy
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		// ユーザー名はそのままAPIレスポンスに載るためHTMLタグを全て除去する
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// RegisterInput はユーザー登録の入力値。
type RegisterInput struct {
	Name  string
	Email string
}

// Register は新しいユーザーを登録する。
// 入力検証はストアに触れる前に行い、不正な入力では書き込みが発生しない。
// 注文実績はゼロで初期化される。実績の更新は注文システム側の責務であり、
// このサービスは参照のみを行う。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, model.NewValidationError("ユーザー名が空です")
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, model.NewValidationError("メールアドレスが空です")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("メールアドレスの形式が不正です: %s", email))
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           addr.Address,
		TotalOrders:     0,
		TotalSpentCents: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("ユーザーを登録しました",
		slog.String("user_id", user.ID),
	)
	return user, nil
}

// Get は指定IDのユーザーを返す。存在しない場合はUSER_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}
	return user, nil
}

// List は全ユーザーの一覧を返す。
func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}
