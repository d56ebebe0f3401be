package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"go.uber.org/zap"
)

// pairKey identifies an unordered pair of users.
func pairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

func scanConnection(row rowScanner) (*models.Connection, error) {
	var c models.Connection
	if err := row.Scan(&c.Id, &c.InitializerId, &c.ReceiverId, &c.StartingDate); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) listConnections(ctx context.Context, query string, args ...any) ([]models.Connection, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query connections", zap.Error(err))
		return nil, fmt.Errorf("unable to query connections: %w", err)
	}
	defer closeRows(rows)

	var connections []models.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan connection row: %w", err)
		}
		connections = append(connections, *c)
	}

	if err := rows.Err(); err != nil {
		zap.L().Error("Error during connection row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating connection rows: %w", err)
	}

	return connections, nil
}

func (r *Repository) GetConnections(ctx context.Context) ([]models.Connection, error) {
	return r.listConnections(ctx, queryGetConnections)
}

// GetConnectionsByUser returns every connection the user takes part in,
// whichever side initiated it.
func (r *Repository) GetConnectionsByUser(ctx context.Context, userId string) ([]models.Connection, error) {
	zap.L().Debug("Querying connections", zap.String("user_id", userId))
	return r.listConnections(ctx, queryGetConnectionsByUser, userId, userId)
}

func (r *Repository) GetConnectionById(ctx context.Context, connectionId string) (*models.Connection, error) {
	c, err := scanConnection(r.queryRow(ctx, queryGetConnectionById, connectionId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("connection %s: %w", connectionId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query connection: %w", err)
	}
	return c, nil
}

func (r *Repository) ConnectionExists(ctx context.Context, userA, userB string) (bool, error) {
	var count int
	if err := r.queryRow(ctx, queryConnectionExists, pairKey(userA, userB)).Scan(&count); err != nil {
		return false, fmt.Errorf("unable to check connection: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) InsertConnection(ctx context.Context, c *models.Connection) error {
	zap.L().Info("Storing connection",
		zap.String("id", c.Id),
		zap.String("initializer_id", c.InitializerId),
		zap.String("receiver_id", c.ReceiverId))

	_, err := r.exec(ctx, queryInsertConnection,
		c.Id, c.InitializerId, c.ReceiverId, pairKey(c.InitializerId, c.ReceiverId), c.StartingDate)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("connection %s <-> %s: %w", c.InitializerId, c.ReceiverId, store.ErrDuplicate)
		}
		zap.L().Error("Failed to insert connection", zap.Error(err))
		return fmt.Errorf("unable to insert connection: %w", err)
	}
	return nil
}
