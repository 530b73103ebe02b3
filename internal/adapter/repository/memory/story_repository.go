package memory

import (
	"context"
	"time"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type storyRepository struct{ s *Store }

func NewStoryRepository(s *Store) repository.StoryRepository {
	return &storyRepository{s: s}
}

func (r *storyRepository) Create(ctx context.Context, story *entity.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if story.ID == "" {
		story.ID = newID()
	}
	if story.LikedBy == nil {
		story.LikedBy = []string{}
	}
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now
	r.s.stories[story.ID] = cloneStory(story)
	return nil
}

func (r *storyRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	story, ok := r.s.stories[id]
	if !ok {
		return nil, errors.NotFound("Story", nil)
	}
	return cloneStory(story), nil
}

func (r *storyRepository) List(ctx context.Context, authorID string, limit, offset int) ([]*entity.Story, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stories := values(r.s.stories, cloneStory, func(s *entity.Story) bool {
		return authorID == "" || s.AuthorID == authorID
	})
	sortByTime(stories, true, func(s *entity.Story) int64 { return s.CreatedAt.UnixNano() })
	return page(stories, limit, offset), int64(len(stories)), nil
}

func (r *storyRepository) Update(ctx context.Context, story *entity.Story) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.stories[story.ID]
	if !ok {
		return errors.NotFound("Story", nil)
	}
	stored.Title = story.Title
	stored.Content = story.Content
	stored.CoverImage = story.CoverImage
	stored.Tags = append([]string(nil), story.Tags...)
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *storyRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.stories, id)
	return nil
}

func (r *storyRepository) ToggleLike(ctx context.Context, id, uid string) (*entity.Story, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	story, ok := r.s.stories[id]
	if !ok {
		return nil, false, errors.NotFound("Story", nil)
	}
	liked := story.ToggleLike(uid)
	return cloneStory(story), liked, nil
}
