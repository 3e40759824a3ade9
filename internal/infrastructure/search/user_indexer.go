package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-user-registration/internal/application"
)

const indexTimeout = 3 * time.Second

// userDoc is the searchable projection of a user. The password hash and the
// session token never leave the primary store.
type userDoc struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phones    []phoneDoc `json:"phones"`
	Created   string     `json:"created"`
	Modified  *string    `json:"modified"`
	LastLogin string     `json:"last_login"`
	IsActive  bool       `json:"is_active"`
}

type phoneDoc struct {
	Number      string `json:"number"`
	CityCode    string `json:"city_code"`
	CountryCode string `json:"country_code"`
}

type UserIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndexer(es *elasticsearch.Client, index string) *UserIndexer {
	return &UserIndexer{es: es, index: index}
}

func (i *UserIndexer) IndexUser(ctx context.Context, u application.UserResponse) error {
	doc := userDoc{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phones:    make([]phoneDoc, 0, len(u.Phones)),
		Created:   u.Created,
		Modified:  u.Modified,
		LastLogin: u.LastLogin,
		IsActive:  u.IsActive,
	}
	for _, p := range u.Phones {
		doc.Phones = append(doc.Phones, phoneDoc{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{Index: i.index, DocumentID: doc.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()
	res, err := req.Do(c, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", doc.ID, res.Status())
	}
	return nil
}

var _ application.Indexer = (*UserIndexer)(nil)
