package queue

import "github.com/redis/go-redis/v9"

// Every state transition of a job runs as a single script, so transitions are
// atomic with respect to other workers and processes sharing the queue.

// KEYS: job hash, wait set. ARGV: id, auction id, max attempts, ready at.
var addScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "auction", ARGV[2], "state", "wait", "attempts", 0, "max", ARGV[3])
redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
return 1
`)

// KEYS: wait set, active set. ARGV: now, lease deadline, owner, job key prefix.
var leaseScript = redis.NewScript(`
local ids = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1], "LIMIT", 0, 1)
if #ids == 0 then
	return false
end
local id = ids[1]
local key = ARGV[4] .. id
redis.call("ZREM", KEYS[1], id)
if redis.call("EXISTS", key) == 0 then
	return false
end
redis.call("ZADD", KEYS[2], ARGV[2], id)
local attempts = redis.call("HINCRBY", key, "attempts", 1)
redis.call("HSET", key, "state", "active", "owner", ARGV[3])
local h = redis.call("HMGET", key, "auction", "max")
return {id, h[1], tostring(attempts), h[2]}
`)

// KEYS: active set, job hash. ARGV: id, owner, lease deadline.
var renewScript = redis.NewScript(`
if redis.call("HGET", KEYS[2], "owner") ~= ARGV[2] then
	return 0
end
if not redis.call("ZSCORE", KEYS[1], ARGV[1]) then
	return 0
end
redis.call("ZADD", KEYS[1], ARGV[3], ARGV[1])
return 1
`)

// KEYS: active set, job hash. ARGV: id, owner, retention ms.
var completeScript = redis.NewScript(`
if redis.call("HGET", KEYS[2], "owner") ~= ARGV[2] then
	return 0
end
redis.call("ZREM", KEYS[1], ARGV[1])
redis.call("HDEL", KEYS[2], "owner", "error")
redis.call("HSET", KEYS[2], "state", "completed")
redis.call("PEXPIRE", KEYS[2], ARGV[3])
return 1
`)

// KEYS: active set, wait set, job hash. ARGV: id, owner, error, ready at, retention ms.
// Returns -1 if the lease was lost, 1 if the job is exhausted and 0 if it was requeued.
var failScript = redis.NewScript(`
if redis.call("HGET", KEYS[3], "owner") ~= ARGV[2] then
	return -1
end
redis.call("ZREM", KEYS[1], ARGV[1])
redis.call("HDEL", KEYS[3], "owner")
redis.call("HSET", KEYS[3], "error", ARGV[3])
local h = redis.call("HMGET", KEYS[3], "attempts", "max")
if tonumber(h[1]) >= tonumber(h[2]) then
	redis.call("HSET", KEYS[3], "state", "failed")
	redis.call("PEXPIRE", KEYS[3], ARGV[5])
	return 1
end
redis.call("HSET", KEYS[3], "state", "wait")
redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
return 0
`)

// KEYS: active set, wait set. ARGV: now, job key prefix, retention ms.
// Returns {id, auction id, attempts, exhausted} for every expired lease.
var stalledScript = redis.NewScript(`
local ids = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
local res = {}
for _, id in ipairs(ids) do
	local key = ARGV[2] .. id
	redis.call("ZREM", KEYS[1], id)
	local h = redis.call("HMGET", key, "attempts", "max", "auction")
	if h[1] and h[2] then
		redis.call("HDEL", key, "owner")
		redis.call("HSET", key, "error", "lease expired")
		if tonumber(h[1]) >= tonumber(h[2]) then
			redis.call("HSET", key, "state", "failed")
			redis.call("PEXPIRE", key, ARGV[3])
			table.insert(res, {id, h[3], h[1], 1})
		else
			redis.call("HSET", key, "state", "wait")
			redis.call("ZADD", KEYS[2], ARGV[1], id)
			table.insert(res, {id, h[3], h[1], 0})
		end
	end
end
return res
`)
