package entity

import "time"

type Story struct {
	ID         string   `json:"id" firestore:"id"`
	AuthorID   string   `json:"authorId" firestore:"authorId"`
	AuthorName string   `json:"authorName" firestore:"authorName"`
	Title      string   `json:"title" firestore:"title"`
	Content    string   `json:"content" firestore:"content"`
	CoverImage string   `json:"coverImage,omitempty" firestore:"coverImage,omitempty"`
	Tags       []string `json:"tags" firestore:"tags"`
	LikedBy    []string `json:"likedBy" firestore:"likedBy"`
	LikeCount  int      `json:"likeCount" firestore:"likeCount"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ToggleLike flips uid's like and reports whether it is now liked.
func (s *Story) ToggleLike(uid string) bool {
	for i, id := range s.LikedBy {
		if id == uid {
			s.LikedBy = append(s.LikedBy[:i], s.LikedBy[i+1:]...)
			s.LikeCount = len(s.LikedBy)
			return false
		}
	}
	s.LikedBy = append(s.LikedBy, uid)
	s.LikeCount = len(s.LikedBy)
	return true
}
