package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dermalens/backend/internal/domain"
)

func TestMemoryRepository_PutAndGet(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	record := &domain.ProductRecord{
		Name:        "Gentle Face Cream",
		Ingredients: []string{"Aqua", "Glycerin"},
		SafetyScore: 1.5,
		Category:    "skincare",
	}
	if err := repo.Put(ctx, record); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "Gentle Face Cream")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SafetyScore != 1.5 {
		t.Errorf("SafetyScore = %v, want 1.5", got.SafetyScore)
	}
	if len(got.Ingredients) != 2 {
		t.Errorf("Ingredients = %v, want 2 entries", got.Ingredients)
	}
	if got.CachedAt.IsZero() {
		t.Error("CachedAt not set by Put")
	}
}

func TestMemoryRepository_Get_CaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	err := repo.Put(ctx, &domain.ProductRecord{Name: "CeraVe Lotion", SafetyScore: 1})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, err := repo.Get(ctx, "cerave lotion"); err != nil {
		t.Errorf("Get() with different case error = %v, want hit", err)
	}
	if _, err := repo.Get(ctx, "  CERAVE LOTION  "); err != nil {
		t.Errorf("Get() with padding error = %v, want hit", err)
	}
}

func TestMemoryRepository_Get_CacheMiss(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)

	_, err := repo.Get(context.Background(), "never stored")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryRepository_Get_Expired(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Millisecond)
	ctx := context.Background()

	if err := repo.Put(ctx, &domain.ProductRecord{Name: "Short Lived"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err := repo.Get(ctx, "Short Lived")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryRepository_Put_Replaces(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Serum", SafetyScore: 3})
	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Serum", SafetyScore: 5})

	got, err := repo.Get(ctx, "Serum")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SafetyScore != 5 {
		t.Errorf("SafetyScore = %v, want 5 (replaced)", got.SafetyScore)
	}
	if repo.Size() != 1 {
		t.Errorf("Size() = %d, want 1", repo.Size())
	}
}

func TestMemoryRepository_Alternatives(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Risky Cream", SafetyScore: 7})
	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Gentle Gel", SafetyScore: 1})
	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Decent Lotion", SafetyScore: 3})
	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Equal Cream", SafetyScore: 5})

	alts, err := repo.Alternatives(ctx, 5, "Risky Cream", 2)
	if err != nil {
		t.Fatalf("Alternatives() error = %v", err)
	}

	if len(alts) != 2 {
		t.Fatalf("Alternatives() = %d records, want 2", len(alts))
	}
	// Safest first, score-equal products excluded.
	if alts[0].Name != "Gentle Gel" || alts[1].Name != "Decent Lotion" {
		t.Errorf("Alternatives() order = [%s, %s], want [Gentle Gel, Decent Lotion]", alts[0].Name, alts[1].Name)
	}
}

func TestMemoryRepository_Alternatives_ExcludesSelf(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Only Product", SafetyScore: 1})

	alts, err := repo.Alternatives(ctx, 5, "only product", 3)
	if err != nil {
		t.Fatalf("Alternatives() error = %v", err)
	}
	if len(alts) != 0 {
		t.Errorf("Alternatives() = %v, want the analyzed product excluded", alts)
	}
}

func TestMemoryRepository_Clear(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	_ = repo.Put(ctx, &domain.ProductRecord{Name: "One"})
	_ = repo.Put(ctx, &domain.ProductRecord{Name: "Two"})

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if repo.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after clear", repo.Size())
	}
	if _, err := repo.Get(ctx, "One"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("Get() after clear error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryRepository_Concurrent(t *testing.T) {
	repo := NewMemoryRepository(1 * time.Minute)
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			name := "Product " + string(rune('A'+id))
			if err := repo.Put(ctx, &domain.ProductRecord{Name: name, SafetyScore: float64(id)}); err != nil {
				t.Errorf("Concurrent Put() error = %v", err)
			}
			if _, err := repo.Get(ctx, name); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestIngredientCodec(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []string
	}{
		{"several ingredients", []string{"Aqua", "Glycerin", "Cetyl Alcohol"}},
		{"single ingredient", []string{"Aqua"}},
		{"empty list", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := decodeIngredients(encodeIngredients(tt.ingredients))
			if len(decoded) != len(tt.ingredients) {
				t.Fatalf("round trip length = %d, want %d", len(decoded), len(tt.ingredients))
			}
			for i := range decoded {
				if decoded[i] != tt.ingredients[i] {
					t.Errorf("decoded[%d] = %q, want %q", i, decoded[i], tt.ingredients[i])
				}
			}
		})
	}
}
