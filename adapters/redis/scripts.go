package redis

import "github.com/redis/go-redis/v9"

// createAuctionScript 用於新增拍賣
//
//	KEYS[1] - 拍賣的 hash
//	KEYS[2] - 進行中拍賣的 sorted set
//	ARGV[1] - 拍賣資料
//	ARGV[2] - 拍賣 ID
//	ARGV[3] - 結束時間 (unix 毫秒)
//
// 返回值:
//
//	1 - 新增成功
//	0 - 拍賣已存在
var createAuctionScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
    return 0
end

redis.call('HSET', KEYS[1], 'version', 0, 'data', ARGV[1])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[2])

return 1
`)

// commitAuctionScript 用於在版本相符時寫入拍賣的新狀態
//
//	KEYS[1] - 拍賣的 hash
//	KEYS[2] - 出價紀錄的 stream
//	KEYS[3] - 進行中拍賣的 sorted set
//	ARGV[1] - 預期的版本
//	ARGV[2] - 新的拍賣資料
//	ARGV[3] - 出價紀錄，空字串表示沒有
//	ARGV[4] - 拍賣 ID
//	ARGV[5] - 新狀態是否為終止狀態 ("1" / "0")
//
// 返回值:
//
//	1  - 寫入成功
//	0  - 版本不符
//	-1 - 拍賣不存在
//
// 流程:
//   - 1. 檢查拍賣是否存在
//   - 2. 比對版本，不符時不做任何修改
//   - 3. 寫入新狀態並把版本加一
//   - 4. 有出價紀錄時寫入 stream
//   - 5. 終止狀態的拍賣從 sorted set 移除，不再被過期掃描處理
var commitAuctionScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
    return -1
end

local version = tonumber(redis.call('HGET', KEYS[1], 'version')) or 0
if version ~= tonumber(ARGV[1]) then
    return 0
end

redis.call('HSET', KEYS[1], 'version', version + 1, 'data', ARGV[2])

if ARGV[3] ~= '' then
    redis.call('XADD', KEYS[2], '*', 'data', ARGV[3])
end

if ARGV[5] == '1' then
    redis.call('ZREM', KEYS[3], ARGV[4])
end

return 1
`)

// appendBidScript 用於寫入不改變拍賣狀態的出價紀錄
//
//	KEYS[1] - 拍賣的 hash
//	KEYS[2] - 出價紀錄的 stream
//	ARGV[1] - 出價紀錄
//
// 返回值:
//
//	1  - 寫入成功
//	-1 - 拍賣不存在
var appendBidScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
    return -1
end

redis.call('XADD', KEYS[2], '*', 'data', ARGV[1])

return 1
`)
