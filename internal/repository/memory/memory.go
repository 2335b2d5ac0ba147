// Package memory keeps every document in process memory. It backs the
// "memory" storage driver used for local runs and end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/repository"
)

// Store is shared by the three repositories so cascades see one state.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	profiles map[string]models.Profile // keyed by owner id
	posts    map[string]models.Post
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]models.User),
		profiles: make(map[string]models.Profile),
		posts:    make(map[string]models.Post),
	}
}

func NewRepository() *repository.Repository {
	s := NewStore()
	return &repository.Repository{
		User:    &userRepo{s: s},
		Profile: &profileRepo{s: s},
		Post:    &postRepo{s: s},
		Health:  healthRepo{},
	}
}

type healthRepo struct{}

func (healthRepo) Ping(context.Context) error { return nil }
func (healthRepo) Name() string               { return "memory" }

type userRepo struct{ s *Store }

func (r *userRepo) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) DeleteUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, userID)
	return nil
}

type profileRepo struct{ s *Store }

// view copies p and populates its owner. Callers hold at least a read lock.
func (s *Store) view(p models.Profile) models.Profile {
	out := p
	out.Skills = append(out.Skills[:0:0], p.Skills...)
	out.Experience = append(models.Experiences{}, p.Experience...)
	out.Education = append(models.Educations{}, p.Education...)
	out.User = &models.UserRef{ID: p.UserID}
	if u, ok := s.users[p.UserID]; ok {
		out.User.Name = u.Name
		out.User.Avatar = u.Avatar
	}
	out.Normalize()
	return out
}

func (r *profileRepo) Upsert(_ context.Context, req repository.UpsertProfileRequest) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[req.UserID]
	if !ok {
		p = models.Profile{ID: req.ID, UserID: req.UserID, Date: time.Now().UTC()}
	}

	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&p.Company, req.Company)
	assign(&p.Website, req.Website)
	assign(&p.Location, req.Location)
	assign(&p.Bio, req.Bio)
	assign(&p.GitHubUsername, req.GitHubUsername)
	p.Status = req.Status
	p.Skills = append([]string{}, req.Skills...)
	p.Social = req.Social

	r.s.profiles[req.UserID] = p
	out := r.s.view(p)
	return &out, nil
}

func (r *profileRepo) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := r.s.view(p)
	return &out, nil
}

func (r *profileRepo) List(_ context.Context) ([]models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		out = append(out, r.s.view(p))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *profileRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.profiles, userID)
	return nil
}

func (r *profileRepo) PushExperience(_ context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return r.mutate(userID, func(p *models.Profile) error {
		p.Experience = append(models.Experiences{exp}, p.Experience...)
		return nil
	})
}

func (r *profileRepo) PullExperience(_ context.Context, userID, expID string) (*models.Profile, error) {
	return r.mutate(userID, func(p *models.Profile) error {
		for i, e := range p.Experience {
			if e.ID == expID {
				p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
}

func (r *profileRepo) PushEducation(_ context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return r.mutate(userID, func(p *models.Profile) error {
		p.Education = append(models.Educations{edu}, p.Education...)
		return nil
	})
}

func (r *profileRepo) PullEducation(_ context.Context, userID, eduID string) (*models.Profile, error) {
	return r.mutate(userID, func(p *models.Profile) error {
		for i, e := range p.Education {
			if e.ID == eduID {
				p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
				return nil
			}
		}
		return repository.ErrEntryNotFound
	})
}

func (r *profileRepo) mutate(userID string, fn func(p *models.Profile) error) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := fn(&p); err != nil {
		return nil, err
	}
	r.s.profiles[userID] = p

	out := r.s.view(p)
	return &out, nil
}

type postRepo struct{ s *Store }

func copyPost(p models.Post) models.Post {
	p.Likes = append(models.Likes{}, p.Likes...)
	p.Comments = append(models.Comments{}, p.Comments...)
	p.Images = append(models.Images{}, p.Images...)
	return p
}

func (r *postRepo) Create(_ context.Context, post *models.Post) error {
	post.Normalize()

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.posts[post.ID] = copyPost(*post)
	return nil
}

func (r *postRepo) GetByID(_ context.Context, postID string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyPost(p)
	return &out, nil
}

func (r *postRepo) List(_ context.Context) ([]models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.sorted(func(models.Post) bool { return true }), nil
}

// sorted returns copies of the posts accepted by keep, newest first.
func (r *postRepo) sorted(keep func(models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range r.s.posts {
		if keep(p) {
			out = append(out, copyPost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r *postRepo) Delete(_ context.Context, postID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	if p.UserID != userID {
		return repository.ErrNotOwner
	}
	delete(r.s.posts, postID)
	return nil
}

func (r *postRepo) DeleteByUserID(_ context.Context, userID string) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	deleted := r.sorted(func(p models.Post) bool { return p.UserID == userID })
	for _, p := range deleted {
		delete(r.s.posts, p.ID)
	}
	return deleted, nil
}

func (r *postRepo) mutate(postID string, fn func(p *models.Post) error) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = copyPost(p)
	if err := fn(&p); err != nil {
		return nil, err
	}
	r.s.posts[postID] = p

	out := copyPost(p)
	return &out, nil
}

func (r *postRepo) AddLike(_ context.Context, postID, userID string) (models.Likes, error) {
	p, err := r.mutate(postID, func(p *models.Post) error {
		if p.HasLike(userID) {
			return repository.ErrAlreadyLiked
		}
		p.Likes = append(models.Likes{{User: userID}}, p.Likes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (r *postRepo) RemoveLike(_ context.Context, postID, userID string) (models.Likes, error) {
	p, err := r.mutate(postID, func(p *models.Post) error {
		for i, l := range p.Likes {
			if l.User == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				return nil
			}
		}
		return repository.ErrNotLiked
	})
	if err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (r *postRepo) AddComment(_ context.Context, postID string, comment models.Comment) (models.Comments, error) {
	p, err := r.mutate(postID, func(p *models.Post) error {
		p.Comments = append(models.Comments{comment}, p.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (r *postRepo) RemoveComment(_ context.Context, postID, commentID, userID string) (models.Comments, error) {
	p, err := r.mutate(postID, func(p *models.Post) error {
		for i, c := range p.Comments {
			if c.ID != commentID {
				continue
			}
			if c.User != userID {
				return repository.ErrNotOwner
			}
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
		return repository.ErrCommentNotFound
	})
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (r *postRepo) AddImage(_ context.Context, postID, userID string, image models.Image) (models.Images, error) {
	p, err := r.mutate(postID, func(p *models.Post) error {
		if p.UserID != userID {
			return repository.ErrNotOwner
		}
		p.Images = append(p.Images, image)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Images, nil
}

func (r *postRepo) RemoveImage(_ context.Context, postID, imageID, userID string) (*models.Image, models.Images, error) {
	var removed models.Image
	p, err := r.mutate(postID, func(p *models.Post) error {
		if p.UserID != userID {
			return repository.ErrNotOwner
		}
		for i, img := range p.Images {
			if img.ID == imageID {
				removed = img
				p.Images = append(p.Images[:i], p.Images[i+1:]...)
				return nil
			}
		}
		return repository.ErrImageNotFound
	})
	if err != nil {
		return nil, nil, err
	}
	return &removed, p.Images, nil
}
