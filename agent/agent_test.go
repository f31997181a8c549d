package agent

import (
	"context"
	"testing"
	"time"

	"github.com/mkombe/loanlens/core/dataset"
	"github.com/mkombe/loanlens/core/query"
	"github.com/stretchr/testify/assert"
)

func testAgent(t *testing.T) *QueryAgent {
	t.Helper()
	store := dataset.NewStore([]dataset.Record{
		{"region": "Central", "sex": "Female", "loan_amount": float64(22000), "user_name": "Maria Rodriguez"},
		{"region": "Central", "sex": "Male", "loan_amount": float64(15000), "user_name": "Juan Perez"},
		{"region": "North", "sex": "Female", "loan_amount": float64(5000), "user_name": "Ana Gomez"},
	}, nil)
	a, err := New(query.NewEngine(store, nil), nil)
	assert.NoError(t, err)
	return a
}

func TestRouteTool(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"hello", ToolGreeting},
		{"Hey!", ToolGreeting},
		{"average loan amount", ToolAggregateLoans},
		{"total loans for women", ToolAggregateLoans},
		{"how many loans are there", ToolAggregateLoans},
		{"group loans by region", ToolAggregateLoans},
		{"show me the raw data", ToolGetRawData},
		{"loans for Juan Perez", ToolFindLoans},
		{"women in Central region", ToolFindLoans},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, routeTool(tc.text))
		})
	}
}

func TestQueryAgent_ProcessQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting returns directly", func(t *testing.T) {
		a := testAgent(t)
		response, err := a.ProcessQuery(ctx, "hello")
		assert.NoError(t, err)
		assert.Equal(t, "Hello! How can I help you with loan data today?", response.Result)
		assert.Equal(t, "This is a friendly greeting response.", response.Explanation)
	})

	t.Run("find query returns matching records", func(t *testing.T) {
		a := testAgent(t)
		response, err := a.ProcessQuery(ctx, "women in Central region")
		assert.NoError(t, err)
		records, ok := response.Result.([]dataset.Record)
		assert.True(t, ok)
		assert.Len(t, records, 1)
		assert.Equal(t, "Maria Rodriguez", records[0]["user_name"])
	})

	t.Run("aggregate query returns aggregated records", func(t *testing.T) {
		a := testAgent(t)
		response, err := a.ProcessQuery(ctx, "total loans for women in Central region")
		assert.NoError(t, err)
		assert.Equal(t, []dataset.Record{{"total_amount": float64(22000)}}, response.Result)
	})

	t.Run("exchanges are recorded in memory", func(t *testing.T) {
		a := testAgent(t)
		_, err := a.ProcessQuery(ctx, "how many loans are there")
		assert.NoError(t, err)
		history := a.Memory().History()
		assert.Len(t, history, 2)
		assert.Equal(t, "user", history[0].Role)
		assert.Equal(t, "how many loans are there", history[0].Content)
		assert.Equal(t, "assistant", history[1].Role)
	})

	t.Run("success events are emitted", func(t *testing.T) {
		a := testAgent(t)
		received := make(chan QueryEvent, 1)
		unsubscribe := a.Subscribe(QuerySuccess, func(ctx context.Context, event QueryEvent) error {
			select {
			case received <- event:
			default:
			}
			return nil
		})
		defer unsubscribe()

		_, err := a.ProcessQuery(ctx, "women in Central region")
		assert.NoError(t, err)

		select {
		case event := <-received:
			assert.Equal(t, ToolFindLoans, event.Tool)
			assert.Equal(t, 1, event.Records)
			assert.NotEmpty(t, event.ID)
		case <-time.After(time.Second):
			t.Fatal("expected a success event")
		}
	})
}

func TestConversationMemory(t *testing.T) {
	memory := NewConversationMemory()
	session := memory.SessionID()
	assert.NotEmpty(t, session)

	memory.Add("user", "hello")
	memory.Add("assistant", "hi there")
	assert.Len(t, memory.History(), 2)

	memory.Reset()
	assert.Empty(t, memory.History())
	assert.NotEqual(t, session, memory.SessionID())
}
