package ingredient

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalogue(t *testing.T, db *gorm.DB) map[string]*entities.Ingredient {
	t.Helper()
	byName := map[string]*entities.Ingredient{}
	for _, item := range [][2]string{{"Salt", "g"}, {"sugar", "g"}, {"Salmon", "g"}, {"Water", "ml"}} {
		i := &entities.Ingredient{Name: item[0], MeasurementUnit: item[1]}
		require.NoError(t, db.Create(i).Error)
		byName[item[0]] = i
	}
	return byName
}

func names(items []domain.IngredientResponse) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Name)
	}
	return out
}

func TestGetIngredients_PrefixFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedCatalogue(t, db)
	service := NewIngredientService(NewIngredientRepository(db), nil)
	ctx := context.Background()

	all, err := service.GetIngredients(ctx, domain.IngredientFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	sa, err := service.GetIngredients(ctx, domain.IngredientFilter{Name: "sa"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Salt", "Salmon"}, names(sa))

	none, err := service.GetIngredients(ctx, domain.IngredientFilter{Name: "alt"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetIngredients_CachedInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	db := testutil.NewTestDB(t)
	seedCatalogue(t, db)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	service := NewIngredientService(NewIngredientRepository(db), cache.NewWithClient(rdb))
	ctx := context.Background()

	first, err := service.GetIngredients(ctx, domain.IngredientFilter{Name: "Sa"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, mr.Exists(listCachePrefix+"sa"))
	assert.Equal(t, listCacheTTL, mr.TTL(listCachePrefix+"sa"))

	// A row added behind the cache stays invisible until the entry expires.
	require.NoError(t, db.Create(&entities.Ingredient{Name: "Sage", MeasurementUnit: "g"}).Error)
	cached, err := service.GetIngredients(ctx, domain.IngredientFilter{Name: "sa"})
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	mr.FastForward(listCacheTTL)
	fresh, err := service.GetIngredients(ctx, domain.IngredientFilter{Name: "sa"})
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestGetIngredient(t *testing.T) {
	db := testutil.NewTestDB(t)
	catalogue := seedCatalogue(t, db)
	service := NewIngredientService(NewIngredientRepository(db), nil)
	ctx := context.Background()

	got, err := service.GetIngredient(ctx, catalogue["Water"].ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.IngredientResponse{ID: catalogue["Water"].ID.String(), Name: "Water", MeasurementUnit: "ml"}, got)

	_, err = service.GetIngredient(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	_, err = service.GetIngredient(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestResolveIngredients(t *testing.T) {
	db := testutil.NewTestDB(t)
	catalogue := seedCatalogue(t, db)
	service := NewIngredientService(NewIngredientRepository(db), nil)
	ctx := context.Background()

	salt, water := catalogue["Salt"].ID, catalogue["Water"].ID
	resolved, err := service.ResolveIngredients(ctx, []uuid.UUID{salt, water})
	require.NoError(t, err)
	assert.Len(t, resolved, 2)
	assert.Equal(t, "Salt", resolved[salt].Name)
	assert.Equal(t, "Water", resolved[water].Name)

	_, err = service.ResolveIngredients(ctx, []uuid.UUID{salt, uuid.New()})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestImportIngredients_OnlyIntoEmptyTable(t *testing.T) {
	db := testutil.NewTestDB(t)
	service := NewIngredientService(NewIngredientRepository(db), nil)
	ctx := context.Background()

	items := []domain.IngredientResponse{
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	added, err := service.ImportIngredients(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = service.ImportIngredients(ctx, items)
	require.NoError(t, err)
	assert.Zero(t, added)

	all, err := service.GetIngredients(ctx, domain.IngredientFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "salt"}, names(all))
}
