package batch

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/transfer-assistant/internal/logging"
	"fjacquet/transfer-assistant/internal/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cryptoRandIntn returns a random int in [0, n) using crypto/rand
func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// echoProcessor echoes the text back and sleeps a little to shuffle
// completion order.
type echoProcessor struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (e *echoProcessor) ProcessTransaction(_ context.Context, text string) processor.Result {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		current := e.maxInFlight.Load()
		if n <= current || e.maxInFlight.CompareAndSwap(current, n) {
			break
		}
	}

	time.Sleep(time.Duration(cryptoRandIntn(3)) * time.Millisecond)
	return processor.Result{Text: text, Method: processor.MethodError, Error: text}
}

func TestOrchestrator_PreservesInputOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			workers := cryptoRandIntn(6) + 1
			count := cryptoRandIntn(30) + 1

			texts := make([]string, count)
			for j := range texts {
				texts[j] = fmt.Sprintf("text-%d", j)
			}

			o := NewOrchestrator(logging.NewMockLogger(), &echoProcessor{}, workers)
			report := o.ProcessMany(context.Background(), texts)

			require.Len(t, report.Results, count)
			for j, r := range report.Results {
				assert.Equal(t, texts[j], r.Text)
			}
			assert.Equal(t, count, report.Stats.Total)
		})
	}
}

func TestOrchestrator_RespectsWorkerLimit(t *testing.T) {
	p := &echoProcessor{}
	texts := make([]string, 40)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	NewOrchestrator(nil, p, 3).ProcessMany(context.Background(), texts)
	assert.LessOrEqual(t, p.maxInFlight.Load(), int32(3))

	sequential := &echoProcessor{}
	NewOrchestrator(nil, sequential, 0).ProcessMany(context.Background(), texts)
	assert.Equal(t, int32(1), sequential.maxInFlight.Load())
}

func TestOrchestrator_RealPipeline(t *testing.T) {
	texts := []string{
		"Перевести 2000₽ получателю Сидорова Анна Петровна счет 40817810555666777888",
		"Переведи деньги без суммы",
		"Перевести 800000 рублей получателю Иван Петров",
	}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			logger := logging.NewMockLogger()
			o := NewOrchestrator(logger, processor.New(logger, nil, nil, nil), workers)

			report := o.ProcessMany(context.Background(), texts)

			require.Len(t, report.Results, 3)
			assert.Equal(t, processor.MethodPattern, report.Results[0].Method)
			assert.Equal(t, processor.MethodError, report.Results[1].Method)
			assert.False(t, report.Results[2].Verdict.IsValid)

			assert.Equal(t, 2, report.Stats.Successful)
			assert.Equal(t, 1, report.Stats.Failed)
			assert.Equal(t, 1, report.Stats.Valid)
			assert.Equal(t, 2, report.Stats.Currencies["RUB"])
			assert.True(t, logger.HasEntry("INFO", "Batch processing completed"))
		})
	}
}

func TestOrchestrator_Empty(t *testing.T) {
	report := NewOrchestrator(nil, &echoProcessor{}, 4).ProcessMany(context.Background(), nil)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.Stats.Total)
}

// panickyProcessor panics on "boom" and echoes every other text.
type panickyProcessor struct{}

func (panickyProcessor) ProcessTransaction(_ context.Context, text string) processor.Result {
	if text == "boom" {
		panic("item failed")
	}
	return processor.Result{Text: text, Method: processor.MethodPattern}
}

func TestOrchestrator_IsolatesPanickingItem(t *testing.T) {
	texts := []string{"a", "boom", "c", "d", "boom", "f"}

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers_%d", workers), func(t *testing.T) {
			logger := logging.NewMockLogger()
			report := NewOrchestrator(logger, panickyProcessor{}, workers).ProcessMany(context.Background(), texts)

			require.Len(t, report.Results, len(texts))
			for i, r := range report.Results {
				assert.Equal(t, texts[i], r.Text)
				if texts[i] == "boom" {
					assert.Equal(t, processor.MethodError, r.Method)
					assert.Contains(t, r.Error, "item failed")
					assert.NotEmpty(t, r.ID)
				} else {
					assert.Equal(t, processor.MethodPattern, r.Method)
				}
			}
			assert.Equal(t, len(texts), report.Stats.Total)
			assert.True(t, logger.HasEntry("ERROR", "Batch item failed"))
		})
	}
}
