package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type StoryUseCase struct {
	storyRepo repository.StoryRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

func NewStoryUseCase(storyRepo repository.StoryRepository, userRepo repository.UserRepository) *StoryUseCase {
	return &StoryUseCase{
		storyRepo: storyRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

type StoryInput struct {
	Title      string
	Content    string
	CoverImage string
	Tags       []string
}

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

func (uc *StoryUseCase) CreateStory(ctx context.Context, uid string, input StoryInput) (*entity.Story, error) {
	author, err := loadUser(ctx, uc.userRepo, uid)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	story := &entity.Story{
		ID:         uuid.New().String(),
		AuthorID:   author.ID,
		AuthorName: displayName(author),
		Title:      input.Title,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Tags:       input.Tags,
		LikedBy:    []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if story.Tags == nil {
		story.Tags = []string{}
	}

	if err := uc.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (uc *StoryUseCase) GetStory(ctx context.Context, id string) (*entity.Story, error) {
	story, err := uc.storyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Story", err)
		}
		return nil, err
	}
	return story, nil
}

func (uc *StoryUseCase) ListStories(ctx context.Context, authorID string, limit, offset int) ([]*entity.Story, int64, error) {
	return uc.storyRepo.List(ctx, authorID, limit, offset)
}

func (uc *StoryUseCase) editable(ctx context.Context, uid, id string) (*entity.Story, error) {
	story, err := uc.GetStory(ctx, id)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != uid && !isAdmin(ctx, uc.userRepo, uid) {
		return nil, errors.Forbidden("You don't have permission to modify this story", nil)
	}
	return story, nil
}

func (uc *StoryUseCase) UpdateStory(ctx context.Context, uid, id string, input StoryInput) (*entity.Story, error) {
	story, err := uc.editable(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		story.Title = input.Title
	}
	if input.Content != "" {
		story.Content = input.Content
	}
	if input.CoverImage != "" {
		story.CoverImage = input.CoverImage
	}
	if input.Tags != nil {
		story.Tags = input.Tags
	}
	story.UpdatedAt = uc.now()

	if err := uc.storyRepo.Update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (uc *StoryUseCase) DeleteStory(ctx context.Context, uid, id string) error {
	if _, err := uc.editable(ctx, uid, id); err != nil {
		return err
	}
	return uc.storyRepo.Delete(ctx, id)
}

func (uc *StoryUseCase) ToggleLike(ctx context.Context, uid, id string) (*LikeResult, error) {
	story, liked, err := uc.storyRepo.ToggleLike(ctx, id, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Story", err)
		}
		return nil, err
	}
	return &LikeResult{Liked: liked, LikeCount: story.LikeCount}, nil
}
