package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/furnishd/staging-service/internal/catalog"
	"github.com/furnishd/staging-service/internal/catalog/dto"
	"github.com/furnishd/staging-service/internal/docstore"
	"github.com/furnishd/staging-service/internal/identity"
	"github.com/furnishd/staging-service/internal/model"
	"github.com/furnishd/staging-service/pkg/cache"
	"github.com/furnishd/staging-service/pkg/logger"
	"github.com/furnishd/staging-service/pkg/search"
	"go.uber.org/zap"
)

const modelsIndex = "models"

type catalogUseCase struct {
	store  docstore.Store
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

func NewCatalogUseCase(store docstore.Store, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		store:  store,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateModel(ctx context.Context, input *dto.CreateModelInput) (*model.Model, error) {
	m := &model.Model{
		ID:                identity.NewID(),
		Name:              input.Name,
		Type:              input.Type,
		PrimaryColor:      input.PrimaryColor,
		SecondaryColor:    input.SecondaryColor,
		PrimaryMaterial:   input.PrimaryMaterial,
		SecondaryMaterial: input.SecondaryMaterial,
		IsEssential:       input.IsEssential,
	}

	items := make([]*model.Item, 0, input.InitialItemCount)
	for i := 0; i < input.InitialItemCount; i++ {
		item := &model.Item{
			ID:          identity.NewID(),
			ModelID:     m.ID,
			ListID:      input.WarehouseID,
			IsAvailable: true,
		}
		items = append(items, item)
		m.ItemIDs = append(m.ItemIDs, item.ID)
	}
	m.AvailableItemCount = int64(len(items))

	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		for _, item := range items {
			if err := tx.Set(model.CollectionItems, item.ID, item); err != nil {
				return err
			}
		}
		return tx.Set(model.CollectionModels, m.ID, m)
	})
	if err != nil {
		return nil, err
	}

	uc.indexModel(ctx, m)
	uc.invalidateModelCache(ctx)
	uc.logger.Info("created model",
		zap.String("model_id", m.ID),
		zap.String("name", m.Name),
		zap.Int("items", len(items)),
	)
	return m, nil
}

func (uc *catalogUseCase) indexModel(ctx context.Context, m *model.Model) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"type": { "type": "keyword" },
				"primaryColor": { "type": "keyword" },
				"primaryMaterial": { "type": "keyword" },
				"isEssential": { "type": "boolean" },
				"availableItemCount": { "type": "long" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, modelsIndex, mapping)

	if err := uc.es.Index(ctx, modelsIndex, m.ID, m); err != nil {
		uc.logger.Error("failed to index model", zap.Error(err))
	}
}

func (uc *catalogUseCase) GetModel(ctx context.Context, modelID string) (*model.Model, error) {
	var m model.Model
	if err := uc.store.Get(ctx, model.CollectionModels, modelID, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (uc *catalogUseCase) GetItem(ctx context.Context, itemID string) (*model.Item, error) {
	var item model.Item
	if err := uc.store.Get(ctx, model.CollectionItems, itemID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (uc *catalogUseCase) ListModels(ctx context.Context, filters *dto.ModelFilters) ([]model.Model, int, error) {
	cacheKey := uc.generateCacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Models []model.Model
				Count  int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Models, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
					"fields": []string{"name^3", "type", "primaryMaterial", "primaryColor"},
				},
			},
		}
		if filters.PageSize > 0 {
			q["from"] = (filters.Page - 1) * filters.PageSize
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, modelsIndex, q)
		if err == nil {
			var esModels []model.Model
			for _, hit := range res.Hits.Hits {
				var m model.Model
				if err := json.Unmarshal(hit.Source, &m); err == nil {
					esModels = append(esModels, m)
				}
			}
			return esModels, res.Hits.Total.Value, nil
		}
		uc.logger.Error("ES search failed, falling back to store listing", zap.Error(err))
	}

	var all []model.Model
	if err := uc.store.List(ctx, model.CollectionModels, &all); err != nil {
		return nil, 0, err
	}

	filtered := all[:0]
	for _, m := range all {
		if filters.Type != "" && m.Type != filters.Type {
			continue
		}
		if filters.SearchQuery != "" &&
			!strings.Contains(strings.ToLower(m.Name), strings.ToLower(filters.SearchQuery)) {
			continue
		}
		filtered = append(filtered, m)
	}
	count := len(filtered)

	if filters.PageSize > 0 {
		start := (filters.Page - 1) * filters.PageSize
		if start < 0 {
			start = 0
		}
		if start > count {
			start = count
		}
		end := start + filters.PageSize
		if end > count {
			end = count
		}
		filtered = filtered[start:end]
	}

	if uc.cache != nil && cacheKey != "" {
		cacheData := struct {
			Models []model.Model
			Count  int
		}{Models: filtered, Count: count}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return filtered, count, nil
}

func (uc *catalogUseCase) generateCacheKey(filters *dto.ModelFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("models:list:%x", md5.Sum(data))
}

func (uc *catalogUseCase) invalidateModelCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "models:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *catalogUseCase) AddItems(ctx context.Context, modelID string, n int, warehouseID string) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("item count must be positive, got %d", n)
	}

	var newIDs []string
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var m model.Model
		if err := tx.Get(model.CollectionModels, modelID, &m); err != nil {
			return err
		}

		newIDs = newIDs[:0]
		for i := 0; i < n; i++ {
			item := &model.Item{
				ID:          identity.NewID(),
				ModelID:     modelID,
				ListID:      warehouseID,
				IsAvailable: true,
			}
			if err := tx.Set(model.CollectionItems, item.ID, item); err != nil {
				return err
			}
			newIDs = append(newIDs, item.ID)
		}
		m.ItemIDs = append(m.ItemIDs, newIDs...)
		if err := tx.Set(model.CollectionModels, modelID, &m); err != nil {
			return err
		}
		// The Set above carries the counter value read in this transaction;
		// the increment on top keeps concurrent installs from being lost.
		return tx.Increment(model.CollectionModels, modelID, model.FieldAvailableItemCount, int64(n))
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateModelCache(ctx)
	return newIDs, nil
}

func (uc *catalogUseCase) RemoveItem(ctx context.Context, modelID, itemID string) error {
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var m model.Model
		if err := tx.Get(model.CollectionModels, modelID, &m); err != nil {
			return err
		}
		var item model.Item
		if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
			return err
		}
		if item.ModelID != modelID {
			return fmt.Errorf("item %s does not belong to model %s", itemID, modelID)
		}
		if !item.IsAvailable {
			return fmt.Errorf("item %s is reserved by list %s and cannot be removed", itemID, item.ListID)
		}

		kept := m.ItemIDs[:0]
		for _, id := range m.ItemIDs {
			if id != itemID {
				kept = append(kept, id)
			}
		}
		m.ItemIDs = kept

		if err := tx.Delete(model.CollectionItems, itemID); err != nil {
			return err
		}
		if err := tx.Set(model.CollectionModels, modelID, &m); err != nil {
			return err
		}
		return tx.Increment(model.CollectionModels, modelID, model.FieldAvailableItemCount, -1)
	})
	if err != nil {
		return err
	}
	uc.invalidateModelCache(ctx)
	return nil
}

func (uc *catalogUseCase) DeleteModel(ctx context.Context, modelID string) error {
	err := uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var m model.Model
		if err := tx.Get(model.CollectionModels, modelID, &m); err != nil {
			return err
		}
		for _, itemID := range m.ItemIDs {
			var item model.Item
			if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
				return err
			}
			if !item.IsAvailable {
				return fmt.Errorf("model %s has item %s installed on list %s", modelID, itemID, item.ListID)
			}
			if err := tx.Delete(model.CollectionItems, itemID); err != nil {
				return err
			}
		}
		return tx.Delete(model.CollectionModels, modelID)
	})
	if err != nil {
		return err
	}

	if uc.es != nil {
		if err := uc.es.Delete(ctx, modelsIndex, modelID); err != nil {
			uc.logger.Error("failed to remove model from index", zap.Error(err))
		}
	}
	uc.invalidateModelCache(ctx)
	uc.logger.Info("deleted model", zap.String("model_id", modelID))
	return nil
}

func (uc *catalogUseCase) SetItemAttention(ctx context.Context, itemID, reason string) error {
	return uc.setAttention(ctx, itemID, true, reason)
}

func (uc *catalogUseCase) ClearItemAttention(ctx context.Context, itemID string) error {
	return uc.setAttention(ctx, itemID, false, "")
}

func (uc *catalogUseCase) setAttention(ctx context.Context, itemID string, attention bool, reason string) error {
	return uc.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		var item model.Item
		if err := tx.Get(model.CollectionItems, itemID, &item); err != nil {
			return err
		}
		item.Attention = attention
		item.AttentionReason = reason
		return tx.Set(model.CollectionItems, itemID, &item)
	})
}
