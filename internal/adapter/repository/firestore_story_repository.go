package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"artisanmart/internal/domain/entity"
	"artisanmart/internal/domain/repository"
	"artisanmart/pkg/errors"
)

type firestoreStoryRepository struct {
	client *firestore.Client
}

func NewFirestoreStoryRepository(client *firestore.Client) repository.StoryRepository {
	return &firestoreStoryRepository{
		client: client,
	}
}

func (r *firestoreStoryRepository) Create(ctx context.Context, story *entity.Story) error {
	if story.ID == "" {
		story.ID = r.client.Collection(storiesCollection).NewDoc().ID
	}
	if story.LikedBy == nil {
		story.LikedBy = []string{}
	}

	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now

	if _, err := r.client.Collection(storiesCollection).Doc(story.ID).Set(ctx, story); err != nil {
		return errors.Internal("Failed to create story", err)
	}
	return nil
}

func (r *firestoreStoryRepository) GetByID(ctx context.Context, id string) (*entity.Story, error) {
	doc, err := r.client.Collection(storiesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, wrapGetError(err, "Story")
	}

	var story entity.Story
	if err := doc.DataTo(&story); err != nil {
		return nil, errors.Internal("Failed to parse story data", err)
	}
	return &story, nil
}

func (r *firestoreStoryRepository) List(ctx context.Context, authorID string, limit, offset int) ([]*entity.Story, int64, error) {
	query := r.client.Collection(storiesCollection).Query
	if authorID != "" {
		query = query.Where("authorId", "==", authorID)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list stories", err)
	}

	stories, err := decodeAll[entity.Story](docs, "story")
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(stories, func(i, j int) bool { return stories[i].CreatedAt.After(stories[j].CreatedAt) })

	return page(stories, limit, offset), int64(len(stories)), nil
}

func (r *firestoreStoryRepository) Update(ctx context.Context, story *entity.Story) error {
	story.UpdatedAt = time.Now()
	_, err := r.client.Collection(storiesCollection).Doc(story.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: story.Title},
		{Path: "content", Value: story.Content},
		{Path: "coverImage", Value: story.CoverImage},
		{Path: "tags", Value: story.Tags},
		{Path: "updatedAt", Value: story.UpdatedAt},
	})
	if err != nil {
		return wrapGetError(err, "Story")
	}
	return nil
}

func (r *firestoreStoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(storiesCollection).Doc(id).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete story", err)
	}
	return nil
}

func (r *firestoreStoryRepository) ToggleLike(ctx context.Context, id, uid string) (*entity.Story, bool, error) {
	ref := r.client.Collection(storiesCollection).Doc(id)

	var result entity.Story
	var liked bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return wrapGetError(err, "Story")
		}

		var story entity.Story
		if err := doc.DataTo(&story); err != nil {
			return errors.Internal("Failed to parse story data", err)
		}

		liked = story.ToggleLike(uid)
		result = story

		return tx.Update(ref, []firestore.Update{
			{Path: "likedBy", Value: story.LikedBy},
			{Path: "likeCount", Value: story.LikeCount},
		})
	})
	if err != nil {
		return nil, false, err
	}
	return &result, liked, nil
}
