package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/localmart/marketplace/internal/catalog"
	"github.com/localmart/marketplace/internal/entity"
	"github.com/localmart/marketplace/internal/imagestore"
	"github.com/localmart/marketplace/internal/messaging"
	"github.com/localmart/marketplace/internal/repository"
)

const productTopic = "catalog.products"

// CatalogService orchestrates product CRUD: the in-memory store is
// authoritative, with writes mirrored to the persistence collaborator
// and change events published for downstream consumers.
type CatalogService struct {
	store     *catalog.Store
	repo      repository.ProductRepository
	images    imagestore.Store
	publisher messaging.Publisher
}

func NewCatalogService(
	store *catalog.Store,
	repo repository.ProductRepository,
	images imagestore.Store,
	publisher messaging.Publisher,
) *CatalogService {
	return &CatalogService{
		store:     store,
		repo:      repo,
		images:    images,
		publisher: publisher,
	}
}

// Init loads the persisted catalog into the store at startup.
func (s *CatalogService) Init(ctx context.Context) error {
	products, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	s.store.Load(products)
	slog.Info("Catalog loaded", "products", len(products))
	return nil
}

// Create publishes a new listing for the seller.
func (s *CatalogService) Create(ctx context.Context, sellerID string, draft entity.ProductDraft) (entity.Product, error) {
	p, err := s.store.Create(sellerID, draft)
	if err != nil {
		return entity.Product{}, err
	}
	slog.Info("Service: Product created", "product_id", p.ID, "seller_id", sellerID)

	s.mirror(ctx, p)
	s.publish(ctx, p.ID, entity.ProductCreated{ProductID: p.ID, SellerID: sellerID, Name: p.Name})
	return p, nil
}

// Update edits an existing listing owned by the seller.
func (s *CatalogService) Update(ctx context.Context, sellerID, id string, draft entity.ProductDraft) (entity.Product, error) {
	p, err := s.store.Update(sellerID, id, draft)
	if err != nil {
		return entity.Product{}, err
	}
	slog.Info("Service: Product updated", "product_id", id, "seller_id", sellerID)

	s.mirror(ctx, p)
	s.publish(ctx, p.ID, entity.ProductUpdated{ProductID: p.ID, SellerID: sellerID})
	return p, nil
}

// Delete removes the seller's listing. Cart snapshots already taken
// stay valid; only the live catalog record goes away.
func (s *CatalogService) Delete(ctx context.Context, sellerID, id string) error {
	if err := s.store.Delete(sellerID, id); err != nil {
		return err
	}
	slog.Info("Service: Product deleted", "product_id", id, "seller_id", sellerID)

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		slog.Error("Failed to delete persisted product", "product_id", id, "err", err)
	}
	s.publish(ctx, id, entity.ProductDeleted{ProductID: id, SellerID: sellerID})
	return nil
}

// Get returns a single listing by id.
func (s *CatalogService) Get(id string) (entity.Product, error) {
	return s.store.Get(id)
}

// List returns all listings in creation order.
func (s *CatalogService) List() []entity.Product {
	return s.store.List()
}

// ListBySeller returns the seller's listings in creation order.
func (s *CatalogService) ListBySeller(sellerID string) []entity.Product {
	return s.store.ListBySeller(sellerID)
}

// UploadImage stores a product image through the image collaborator and
// returns its URL for the draft.
func (s *CatalogService) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	url, err := s.images.StoreImage(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

// mirror writes the listing to the persistence collaborator. The store
// already committed, so a mirror failure is logged, not surfaced.
func (s *CatalogService) mirror(ctx context.Context, p entity.Product) {
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		slog.Error("Failed to persist product", "product_id", p.ID, "err", err)
	}
}

func (s *CatalogService) publish(ctx context.Context, key string, event entity.Event) {
	if err := s.publisher.PublishEvent(ctx, productTopic, key, event); err != nil {
		slog.Error("Failed to publish product event", "event", event.EventType(), "err", err)
	}
}
