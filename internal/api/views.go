package api

import (
	"context"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"
)

func userView(u *models.User) models.UserView {
	return models.UserView{
		Id:        u.Id,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Balance:   u.Balance,
	}
}

func bankAccountView(a *models.BankAccount) models.BankAccountView {
	return models.BankAccountView{
		Id:       a.Id,
		BankName: a.BankName,
		Iban:     a.Iban,
		Balance:  a.Balance,
	}
}

// userResolver caches user lookups while projecting a list.
type userResolver struct {
	q     store.Queries
	cache map[string]models.UserView
}

func newUserResolver(q store.Queries) *userResolver {
	return &userResolver{q: q, cache: make(map[string]models.UserView)}
}

func (r *userResolver) view(ctx context.Context, userId string) (models.UserView, error) {
	if v, ok := r.cache[userId]; ok {
		return v, nil
	}
	u, err := r.q.GetUserById(ctx, userId)
	if err != nil {
		return models.UserView{}, notFound(err, ErrUserNotFound, userId)
	}
	v := userView(u)
	r.cache[userId] = v
	return v, nil
}

func (r *userResolver) connectionView(ctx context.Context, c models.Connection) (models.ConnectionView, error) {
	initializer, err := r.view(ctx, c.InitializerId)
	if err != nil {
		return models.ConnectionView{}, err
	}
	receiver, err := r.view(ctx, c.ReceiverId)
	if err != nil {
		return models.ConnectionView{}, err
	}
	return models.ConnectionView{
		Id:           c.Id,
		Initializer:  initializer,
		Receiver:     receiver,
		StartingDate: c.StartingDate,
	}, nil
}

func (r *userResolver) transactionView(ctx context.Context, t models.Transaction) (models.TransactionView, error) {
	issuer, err := r.view(ctx, t.IssuerId)
	if err != nil {
		return models.TransactionView{}, err
	}
	payee, err := r.view(ctx, t.PayeeId)
	if err != nil {
		return models.TransactionView{}, err
	}
	return models.TransactionView{
		Id:          t.Id,
		Issuer:      issuer,
		Payee:       payee,
		Date:        t.Date,
		Amount:      t.Amount,
		Description: t.Description,
	}, nil
}

func (r *userResolver) transactionViews(ctx context.Context, transactions []models.Transaction) ([]models.TransactionView, error) {
	views := make([]models.TransactionView, 0, len(transactions))
	for _, t := range transactions {
		v, err := r.transactionView(ctx, t)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (r *userResolver) connectionViews(ctx context.Context, connections []models.Connection) ([]models.ConnectionView, error) {
	views := make([]models.ConnectionView, 0, len(connections))
	for _, c := range connections {
		v, err := r.connectionView(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}
