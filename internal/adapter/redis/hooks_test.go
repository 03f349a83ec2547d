package redis

import (
	"context"
	"net"

	goredis "github.com/redis/go-redis/v9"
)

// stubHook answers commands without touching the network. reply decides the error of
// each command; a nil reply succeeds.
type stubHook struct {
	cmds  [][]any
	reply func(call int, cmd goredis.Cmder) error
}

func (h *stubHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, &net.OpError{Op: "dial", Net: network}
	}
}

func (h *stubHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		h.cmds = append(h.cmds, cmd.Args())
		var err error
		if h.reply != nil {
			err = h.reply(len(h.cmds), cmd)
		}
		if err != nil {
			cmd.SetErr(err)
			return err
		}
		if c, ok := cmd.(*goredis.IntCmd); ok {
			c.SetVal(1)
		}
		return nil
	}
}

func (h *stubHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return next
}

func newStubClient(h *stubHook) *goredis.Client {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(h)
	return rdb
}

type redisReplyError string

func (e redisReplyError) Error() string { return string(e) }
func (e redisReplyError) RedisError()   {}
