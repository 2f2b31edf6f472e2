package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
)

// ProfileSyncService pushes the editable settings profile onto the
// canonical admin user row. The sync is strictly one-directional
// (settings -> user); the byte-equality gate below is what keeps a
// user-row listener from ever re-triggering this path.
type ProfileSyncService struct {
	users    repository.UserRepository
	settings repository.SettingsRepository
	bus      feed.Bus
}

func NewProfileSyncService(users repository.UserRepository, settings repository.SettingsRepository, bus feed.Bus) *ProfileSyncService {
	return &ProfileSyncService{users: users, settings: settings, bus: bus}
}

type SyncAdminInput struct {
	Name     string
	Email    string
	Avatar   string
	OldEmail string
}

// SyncAdmin locates the admin row to update (by the pre-edit email, or any
// admin if emails have drifted) and writes the incoming profile onto it.
// Returns skipped=true with zero writes when the target already matches.
func (s *ProfileSyncService) SyncAdmin(ctx context.Context, in SyncAdminInput) (skipped bool, err error) {
	target, err := s.users.GetAdminByEmail(ctx, in.OldEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		target, err = s.users.GetFirstAdmin(ctx)
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, ErrNoAdminFound
		}
	}
	if err != nil {
		return false, fmt.Errorf("locate admin: %w", err)
	}

	incoming := domain.Profile{Name: in.Name, Email: in.Email, Avatar: in.Avatar}
	if target.Profile().Equal(incoming) {
		// Already in sync. Not writing here is the loop breaker.
		return true, nil
	}

	if err := s.users.UpdateUserProfile(ctx, target.ID, incoming); err != nil {
		return false, fmt.Errorf("sync admin profile: %w", err)
	}

	target.Name = incoming.Name
	target.Email = incoming.Email
	target.Avatar = incoming.Avatar
	s.publishUser(target)
	return false, nil
}

// SaveProfile persists the settings surface and then runs the one-way sync.
func (s *ProfileSyncService) SaveProfile(ctx context.Context, profile domain.Profile, oldEmail string) (skipped bool, err error) {
	if err := s.settings.SaveProfile(ctx, profile); err != nil {
		return false, fmt.Errorf("save settings profile: %w", err)
	}

	if evt, err := feed.NewEvent(feed.EventUpdated, feed.TableSettings, profile); err == nil {
		s.bus.Publish(evt)
	}

	return s.SyncAdmin(ctx, SyncAdminInput{
		Name:     profile.Name,
		Email:    profile.Email,
		Avatar:   profile.Avatar,
		OldEmail: oldEmail,
	})
}

func (s *ProfileSyncService) GetProfile(ctx context.Context) (*domain.Profile, error) {
	return s.settings.GetProfile(ctx)
}

func (s *ProfileSyncService) publishUser(user *domain.User) {
	evt, err := feed.NewEvent(feed.EventUpdated, feed.TableUsers, user)
	if err != nil {
		log.Printf("profile sync: failed to build user event for %s: %v", user.ID, err)
		return
	}
	s.bus.Publish(evt)
}
