package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/social-network-website/internal/domain"
	"github.com/dom/social-network-website/internal/repository"
	"github.com/google/uuid"
)

type PostService struct {
	postRepo    repository.PostRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository, likeRepo repository.LikeRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

type CreatePostInput struct {
	Text      string
	Photo     []byte
	PhotoType string
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.FeedPost, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	post := &domain.Post{
		ID:        uuid.New(),
		Text:      text,
		Photo:     input.Photo,
		PhotoType: input.PhotoType,
		AuthorID:  authorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload with the author row so the response carries the display name.
	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	feed, err := s.assemble(ctx, authorID, []*domain.Post{created})
	if err != nil {
		return nil, err
	}
	return feed[0], nil
}

func (s *PostService) Get(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ListByUser(ctx context.Context, viewerID, userID uuid.UUID) ([]*domain.FeedPost, error) {
	posts, err := s.postRepo.GetByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, viewerID, posts)
}

// NewsFeed returns posts from users the viewer follows plus the viewer's
// own, newest first.
func (s *PostService) NewsFeed(ctx context.Context, userID uuid.UUID) ([]*domain.FeedPost, error) {
	following, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetByAuthors(ctx, append(following, userID))
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, userID, posts)
}

// Delete removes a post. Only the author may delete.
func (s *PostService) Delete(ctx context.Context, actorID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return domain.ErrForbidden
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) Photo(ctx context.Context, postID uuid.UUID) ([]byte, string, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	if !post.HasPhoto() {
		return nil, "", domain.ErrPhotoNotFound
	}
	return post.Photo, post.PhotoType, nil
}

func (s *PostService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.likeRepo.Create(ctx, &domain.PostLike{
		PostID: postID,
		UserID: userID,
	})
}

func (s *PostService) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	return s.likeRepo.Delete(ctx, postID, userID)
}

func (s *PostService) Comment(ctx context.Context, authorID, postID uuid.UUID, text string) (*domain.FeedComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.PostComment{
		ID:       uuid.New(),
		Text:     text,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	fc := &domain.FeedComment{Comment: created}
	if created.Author != nil {
		fc.AuthorName = created.Author.Name
	}
	return fc, nil
}

// Uncomment removes a comment. Only the comment's author may remove it.
func (s *PostService) Uncomment(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return domain.ErrForbidden
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// assemble decorates raw post rows with author names, like totals, whether
// the viewer liked each post, and comments, in three batched queries.
func (s *PostService) assemble(ctx context.Context, viewerID uuid.UUID, posts []*domain.Post) ([]*domain.FeedPost, error) {
	feed := make([]*domain.FeedPost, 0, len(posts))
	if len(posts) == 0 {
		return feed, nil
	}

	postIDs := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	likeCounts, err := s.likeRepo.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil {
		liked, err = s.likeRepo.LikedByUser(ctx, viewerID, postIDs)
		if err != nil {
			return nil, err
		}
	}

	comments, err := s.commentRepo.GetByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentsByPost := make(map[uuid.UUID][]*domain.FeedComment)
	for _, comment := range comments {
		fc := &domain.FeedComment{Comment: comment}
		if comment.Author != nil {
			fc.AuthorName = comment.Author.Name
		}
		commentsByPost[comment.PostID] = append(commentsByPost[comment.PostID], fc)
	}

	for _, post := range posts {
		fp := &domain.FeedPost{
			Post:        post,
			Likes:       likeCounts[post.ID],
			ViewerLiked: liked[post.ID],
			Comments:    commentsByPost[post.ID],
		}
		if post.Author != nil {
			fp.AuthorName = post.Author.Name
		}
		feed = append(feed, fp)
	}
	return feed, nil
}
