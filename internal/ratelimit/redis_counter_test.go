package ratelimit

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

func expectPipeline(client *mock.Client, results ...rueidis.RedisResult) *[][]string {
	var sent [][]string
	client.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, multi ...rueidis.Completed) []rueidis.RedisResult {
			for i := range multi {
				sent = append(sent, multi[i].Commands())
			}
			return results
		})
	return &sent
}

func TestRedisCounter_SetsTTLBeforeCounting(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	sent := expectPipeline(client,
		mock.Result(mock.RedisString("OK")),
		mock.Result(mock.RedisInt64(1)),
	)

	counter := NewRedisCounter(client, "rl")
	n, err := counter.Increment(context.Background(), "10.0.0.1", time.Minute)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}

	cmds := *sent
	if len(cmds) != 2 {
		t.Fatalf("expected SET and INCR in one pipeline, got %v", cmds)
	}
	set, incr := cmds[0], cmds[1]
	if set[0] != "SET" || set[1] != "rl:10.0.0.1" || !slices.Contains(set, "NX") || !slices.Contains(set, "PX") || !slices.Contains(set, "60000") {
		t.Errorf("unexpected SET command %v", set)
	}
	if incr[0] != "INCR" || incr[1] != "rl:10.0.0.1" {
		t.Errorf("unexpected INCR command %v", incr)
	}
}

func TestRedisCounter_OpenWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)

	expectPipeline(client,
		mock.Result(mock.RedisNil()),
		mock.Result(mock.RedisInt64(7)),
	)

	n, err := NewRedisCounter(client, "rl").Increment(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("existing window must not be an error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected count 7, got %d", n)
	}
}

func TestRedisCounter_Errors(t *testing.T) {
	backendDown := errors.New("connection refused")

	tests := []struct {
		name    string
		results []rueidis.RedisResult
	}{
		{"set fails", []rueidis.RedisResult{mock.ErrorResult(backendDown), mock.ErrorResult(backendDown)}},
		{"incr fails", []rueidis.RedisResult{mock.Result(mock.RedisString("OK")), mock.ErrorResult(backendDown)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewClient(ctrl)
			expectPipeline(client, tt.results...)

			if _, err := NewRedisCounter(client, "rl").Increment(context.Background(), "k", time.Minute); !errors.Is(err, backendDown) {
				t.Errorf("expected backend error, got %v", err)
			}
		})
	}
}
