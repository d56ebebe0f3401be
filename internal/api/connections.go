package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pay-my-buddy-go/internal/metrics"
	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionsOf returns the other party of every connection the user takes
// part in, in the order the connections were made.
func (s *Service) ConnectionsOf(ctx context.Context, user *models.User) ([]models.UserView, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	return connectionsOf(ctx, s.store, user.Id)
}

func connectionsOf(ctx context.Context, q store.Queries, userId string) ([]models.UserView, error) {
	connections, err := q.GetConnectionsByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	resolver := newUserResolver(q)
	buddies := make([]models.UserView, 0, len(connections))
	for _, c := range connections {
		other := c.ReceiverId
		if other == userId {
			other = c.InitializerId
		}
		v, err := resolver.view(ctx, other)
		if err != nil {
			return nil, err
		}
		buddies = append(buddies, v)
	}
	return buddies, nil
}

// ConnectionsPage is ConnectionsOf split into pages
func (s *Service) ConnectionsPage(ctx context.Context, user *models.User, page, size int) (models.Page[models.UserView], error) {
	buddies, err := s.ConnectionsOf(ctx, user)
	if err != nil {
		return models.Page[models.UserView]{}, err
	}
	return Paginate(buddies, page, size), nil
}

// GetUserConnections lists the buddies of any user by id
func (s *Service) GetUserConnections(ctx context.Context, userId string) ([]models.UserView, error) {
	if _, err := s.store.GetUserById(ctx, userId); err != nil {
		return nil, notFound(err, ErrUserNotFound, userId)
	}
	return connectionsOf(ctx, s.store, userId)
}

// AreConnected reports whether b is a buddy of a. The relation is symmetric.
func (s *Service) AreConnected(ctx context.Context, a, b *models.User) (bool, error) {
	if a == nil || b == nil {
		return false, fmt.Errorf("%w: both users are required", ErrInvalidInput)
	}
	return s.store.ConnectionExists(ctx, a.Id, b.Id)
}

// CreateConnection makes the user owning peerEmail a buddy of initializer
func (s *Service) CreateConnection(ctx context.Context, initializer *models.User, peerEmail string) (models.ConnectionView, error) {
	view, err := s.createConnection(ctx, initializer, peerEmail)
	if err != nil {
		s.metrics.RecordConnection(outcomeOf(err))
		return models.ConnectionView{}, err
	}
	s.metrics.RecordConnection(metrics.OutcomeSuccess)
	return view, nil
}

func (s *Service) createConnection(ctx context.Context, initializer *models.User, peerEmail string) (models.ConnectionView, error) {
	if initializer == nil {
		return models.ConnectionView{}, fmt.Errorf("%w: initializer is required", ErrInvalidInput)
	}

	peerEmail = strings.TrimSpace(peerEmail)
	if err := validateEmail(peerEmail); err != nil {
		return models.ConnectionView{}, err
	}
	if strings.EqualFold(peerEmail, initializer.Email) {
		return models.ConnectionView{}, fmt.Errorf("%w: cannot add yourself as a buddy", ErrInvalidInput)
	}

	peer, err := s.store.GetUserByEmail(ctx, peerEmail)
	if err != nil {
		return models.ConnectionView{}, notFound(err, ErrPeerNotFound, peerEmail)
	}

	connection := &models.Connection{
		Id:            uuid.New().String(),
		InitializerId: initializer.Id,
		ReceiverId:    peer.Id,
		StartingDate:  s.clock.Now(),
	}

	err = s.store.WithinTx(ctx, func(q store.Queries) error {
		connected, err := q.ConnectionExists(ctx, initializer.Id, peer.Id)
		if err != nil {
			return err
		}
		if connected {
			return fmt.Errorf("%w: %s", ErrDuplicateConnection, peerEmail)
		}

		if err := q.InsertConnection(ctx, connection); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrDuplicateConnection, peerEmail)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.ConnectionView{}, err
	}

	zap.L().Info("Connection created",
		zap.String("connection_id", connection.Id),
		zap.String("initializer_id", initializer.Id),
		zap.String("receiver_id", peer.Id))

	return models.ConnectionView{
		Id:           connection.Id,
		Initializer:  userView(initializer),
		Receiver:     userView(peer),
		StartingDate: connection.StartingDate,
	}, nil
}

func (s *Service) GetConnections(ctx context.Context) ([]models.ConnectionView, error) {
	connections, err := s.store.GetConnections(ctx)
	if err != nil {
		return nil, err
	}
	return newUserResolver(s.store).connectionViews(ctx, connections)
}

func (s *Service) GetConnectionById(ctx context.Context, connectionId string) (models.ConnectionView, error) {
	connection, err := s.store.GetConnectionById(ctx, connectionId)
	if err != nil {
		return models.ConnectionView{}, notFound(err, ErrConnectionNotFound, connectionId)
	}
	return newUserResolver(s.store).connectionView(ctx, *connection)
}
