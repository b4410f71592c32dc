package redis

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"solo-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches bank content from a backing store (file, Postgres, etc).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches bank grading data in Redis (hash per bank) and falls
// back to a loader on cache miss.
// Prompts are stored as:    HSET bank:{bankID}:prompts    {index} {prompt}
// References are stored as: HSET bank:{bankID}:references {index} {reference}
// Points are stored as:     HSET bank:{bankID}:points     {index} {points}
// The title is stored as:   SET  bank:{bankID}:title      {title}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	promptKey := r.promptsKey(bankID)
	refKey := r.referencesKey(bankID)
	pointKey := r.pointsKey(bankID)

	prompts, err := r.client.HGetAll(ctx, promptKey).Result()
	if err == nil && len(prompts) > 0 {
		refs, _ := r.client.HGetAll(ctx, refKey).Result()
		pointsMap, _ := r.client.HGetAll(ctx, pointKey).Result()
		title, _ := r.client.Get(ctx, r.titleKey(bankID)).Result()
		return buildBankFromCache(bankID, title, prompts, refs, pointsMap), nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		prompts, err := r.client.HGetAll(ctx, promptKey).Result()
		if err == nil && len(prompts) > 0 {
			refs, _ := r.client.HGetAll(ctx, refKey).Result()
			pointsMap, _ := r.client.HGetAll(ctx, pointKey).Result()
			title, _ := r.client.Get(ctx, r.titleKey(bankID)).Result()
			return buildBankFromCache(bankID, title, prompts, refs, pointsMap), nil
		}

		bank, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		pipe.Set(ctx, r.titleKey(bankID), bank.Title, ttl)
		for i, q := range bank.Questions {
			field := strconv.Itoa(i)
			pipe.HSet(ctx, promptKey, field, q.Prompt)
			pipe.HSet(ctx, refKey, field, q.Rule.Reference)
			pipe.HSet(ctx, pointKey, field, q.EffectivePoints())
		}
		if ttl > 0 {
			pipe.Expire(ctx, promptKey, ttl)
			pipe.Expire(ctx, refKey, ttl)
			pipe.Expire(ctx, pointKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) promptsKey(bankID string) string {
	return "bank:" + bankID + ":prompts"
}

func (r *BankRepository) referencesKey(bankID string) string {
	return "bank:" + bankID + ":references"
}

func (r *BankRepository) pointsKey(bankID string) string {
	return "bank:" + bankID + ":points"
}

func (r *BankRepository) titleKey(bankID string) string {
	return "bank:" + bankID + ":title"
}

// buildBankFromCache reassembles questions in index order. Fields are hash
// keys "0".."n-1"; anything unparsable is skipped. The round-trip is lossy
// for authored zero-point questions: effective points (>= 1) are what get
// cached, which is all grading and totals ever consume.
func buildBankFromCache(bankID, title string, prompts, refs, pointsMap map[string]string) domain.Bank {
	questions := make([]domain.Question, len(prompts))
	for field, prompt := range prompts {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 0 || idx >= len(questions) {
			continue
		}
		points := 1
		if pStr, ok := pointsMap[field]; ok {
			if p, err := strconv.Atoi(pStr); err == nil && p > 0 {
				points = p
			}
		}
		questions[idx] = domain.Question{
			Prompt: prompt,
			Points: points,
			Rule: domain.GradingRule{
				Kind:      domain.RuleExactMatch,
				Reference: refs[field],
			},
		}
	}
	return domain.Bank{ID: bankID, Title: title, Questions: questions}
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
