package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFoodCartUpdateSetDocument(t *testing.T) {
	t.Run("empty payload produces no update", func(t *testing.T) {
		assert.Empty(t, FoodCartUpdate{}.SetDocument())
	})

	t.Run("string fields merge only when non-empty", func(t *testing.T) {
		set := FoodCartUpdate{Name: "Nong's", FoodType: "Thai"}.SetDocument()
		assert.Equal(t, "Nong's", set["name"])
		assert.Equal(t, "Thai", set["foodType"])
		assert.Len(t, set, 2)
	})

	t.Run("updating one slot leaves the others untouched", func(t *testing.T) {
		set := FoodCartUpdate{
			Images: &FoodCartImagesUpdate{
				Main: &ImageRef{URL: "https://img/new.jpg", PublicID: "foodcarts/main/new"},
			},
		}.SetDocument()
		require.Len(t, set, 1)
		assert.Contains(t, set, "images.main")
		assert.NotContains(t, set, "images.menu")
		assert.NotContains(t, set, "images.specials")
	})

	t.Run("incomplete refs are dropped, never stored", func(t *testing.T) {
		set := FoodCartUpdate{
			Images: &FoodCartImagesUpdate{
				Menu:     &ImageRef{URL: "https://img/menu.jpg"},
				Specials: &ImageRef{PublicID: "foodcarts/specials/x"},
			},
		}.SetDocument()
		assert.Empty(t, set)
	})

	t.Run("all slots merge with dot notation", func(t *testing.T) {
		set := FoodCartUpdate{
			Images: &FoodCartImagesUpdate{
				Main:     &ImageRef{URL: "https://img/a.jpg", PublicID: "a"},
				Menu:     &ImageRef{URL: "https://img/b.jpg", PublicID: "b"},
				Specials: &ImageRef{URL: "https://img/c.jpg", PublicID: "c"},
			},
		}.SetDocument()
		assert.Len(t, set, 3)
		assert.Equal(t, ImageRef{URL: "https://img/b.jpg", PublicID: "b"}, set["images.menu"])
	})
}

func TestFoodCartUpdateReplacedImages(t *testing.T) {
	current := FoodCartImages{
		Main: &ImageRef{URL: "https://img/old.jpg", PublicID: "foodcarts/main/old"},
	}

	update := FoodCartUpdate{
		Images: &FoodCartImagesUpdate{
			Main: &ImageRef{URL: "https://img/new.jpg", PublicID: "foodcarts/main/new"},
			Menu: &ImageRef{URL: "https://img/menu.jpg", PublicID: "foodcarts/menu/new"},
		},
	}
	old := update.ReplacedImages(current)
	require.Len(t, old, 1)
	assert.Equal(t, "foodcarts/main/old", old[0].PublicID)

	assert.Empty(t, FoodCartUpdate{Name: "x"}.ReplacedImages(current))

	// A form that echoes the stored ref back unchanged keeps the image.
	echo := FoodCartUpdate{
		Images: &FoodCartImagesUpdate{
			Main: &ImageRef{URL: "https://img/old.jpg", PublicID: "foodcarts/main/old"},
		},
	}
	assert.Empty(t, echo.ReplacedImages(current))
}

func TestSummarizeFoodCarts(t *testing.T) {
	a := FoodCart{
		ID:       primitive.NewObjectID(),
		Name:     "Nong's",
		FoodType: "Thai",
	}
	a.Images.Main = &ImageRef{URL: "https://img/nongs.jpg", PublicID: "foodcarts/main/nongs"}
	b := FoodCart{
		ID:       primitive.NewObjectID(),
		Name:     "Matt's BBQ",
		FoodType: "BBQ",
	}
	dangling := primitive.NewObjectID()

	order := []primitive.ObjectID{b.ID, dangling, a.ID}
	summaries := SummarizeFoodCarts(order, []FoodCart{a, b})

	require.Len(t, summaries, 2)
	assert.Equal(t, "Matt's BBQ", summaries[0].Name)
	assert.Empty(t, summaries[0].MainImageURL)
	assert.Equal(t, "Nong's", summaries[1].Name)
	assert.Equal(t, "https://img/nongs.jpg", summaries[1].MainImageURL)
}
