package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"q4auction/models"
)

// BidRequest 是一次出價的輸入
type BidRequest struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    int64
	MaxBid    *int64
}

// notice 是 commit 後要送出的通知
type notice struct {
	userID uuid.UUID
	kind   models.EventKind
}

// decision 是規則計算後的結果，不含任何 I/O
type decision struct {
	next    models.Auction
	bid     models.Bid
	instant bool
	notices []notice
}

// decideBid 依照拍賣目前的狀態判斷出價是否被接受並計算新狀態
// 檢查順序: 拍賣是否可出價 -> 是否為賣家 -> 金額
func decideBid(current models.Auction, req BidRequest, bidID uuid.UUID, now time.Time) (decision, error) {
	if !current.Open(now) {
		return decision{}, fmt.Errorf("%w: status=%s, ends_at=%s", ErrAuctionClosed, current.Status, current.EndsAt.Format(time.RFC3339))
	}
	if req.BidderID == current.SellerID {
		return decision{}, ErrSelfBidForbidden
	}
	if req.Amount <= 0 {
		return decision{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	bid := models.Bid{
		ID:        bidID,
		AuctionID: current.ID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
		MaxBid:    req.MaxBid,
		Outcome:   models.BidOutcomeAccepted,
		CreatedAt: now,
	}
	switch current.Type {
	case models.AuctionTypeUp:
		return decideUp(current, bid, now)
	case models.AuctionTypeDown:
		return decideDown(current, bid, now)
	default:
		return decision{}, fmt.Errorf("%w: unknown auction type %q", ErrInvalidAmount, current.Type)
	}
}

func decideUp(current models.Auction, bid models.Bid, now time.Time) (decision, error) {
	// 第一次出價可以等於起標價，之後至少要加上一個增額
	minimum := current.CurrentPrice
	if current.BidCount > 0 {
		minimum += current.BidIncrement
	}
	if bid.Amount < minimum {
		return decision{}, &PriceError{Err: ErrInvalidAmount, Reason: "amount is below the minimum acceptable bid", Price: minimum}
	}
	if bid.MaxBid != nil && *bid.MaxBid < bid.Amount {
		return decision{}, fmt.Errorf("%w: max bid %d is below the bid amount %d", ErrInvalidAmount, *bid.MaxBid, bid.Amount)
	}

	next := current
	next.BidCount++
	previous := current.HighestBidderID

	// 直購價: 一律直接成交，不處理自動出價
	if current.InstantPrice != nil && bid.Amount >= *current.InstantPrice {
		next.CurrentPrice = bid.Amount
		next.HighestBidderID = lo.ToPtr(bid.BidderID)
		next.HighestBidID = lo.ToPtr(bid.ID)
		next.StandingMaxBid = nil
		markSold(&next, bid.ID, now)
		notices := []notice{
			{userID: current.SellerID, kind: models.EventSold},
			{userID: bid.BidderID, kind: models.EventWon},
		}
		if previous != nil && *previous != bid.BidderID {
			notices = append(notices, notice{userID: *previous, kind: models.EventOutbid})
		}
		return decision{next: next, bid: bid, instant: true, notices: notices}, nil
	}

	// 自動出價: 每次出價只處理一輪
	// 原本的上限要能再加一個增額才守得住；挑戰者也有上限且相同時，較早的出價者勝出
	ceiling := lo.FromPtrOr(bid.MaxBid, bid.Amount)
	challenged := previous != nil && *previous != bid.BidderID && current.StandingMaxBid != nil
	if challenged && (*current.StandingMaxBid >= ceiling+current.BidIncrement ||
		(bid.MaxBid != nil && *current.StandingMaxBid >= ceiling)) {
		// 原本的最高出價者保持領先，價格推到剛好蓋過挑戰者，但不超過自己的上限
		bid.Outcome = models.BidOutcomeAutoOutbid
		next.CurrentPrice = min(*current.StandingMaxBid, ceiling+current.BidIncrement)
		if current.InstantPrice != nil && next.CurrentPrice >= *current.InstantPrice {
			// 自動加價碰到直購價時，以直購價成交給原本的最高出價者
			next.CurrentPrice = *current.InstantPrice
			next.StandingMaxBid = nil
			markSold(&next, lo.FromPtr(current.HighestBidID), now)
			return decision{next: next, bid: bid, notices: []notice{
				{userID: current.SellerID, kind: models.EventSold},
				{userID: *previous, kind: models.EventWon},
			}}, nil
		}
		return decision{next: next, bid: bid, notices: []notice{
			{userID: *previous, kind: models.EventAutoBidRaised},
			{userID: current.SellerID, kind: models.EventNewBid},
		}}, nil
	}

	next.CurrentPrice = bid.Amount
	next.HighestBidderID = lo.ToPtr(bid.BidderID)
	next.HighestBidID = lo.ToPtr(bid.ID)
	if challenged && bid.MaxBid != nil {
		// 挑戰者的上限較高，直接以一個增額蓋過原本的上限
		next.CurrentPrice = max(bid.Amount, min(ceiling, *current.StandingMaxBid+current.BidIncrement))
		if current.InstantPrice != nil && next.CurrentPrice >= *current.InstantPrice {
			next.CurrentPrice = *current.InstantPrice
			next.StandingMaxBid = nil
			markSold(&next, bid.ID, now)
			return decision{next: next, bid: bid, notices: []notice{
				{userID: current.SellerID, kind: models.EventSold},
				{userID: bid.BidderID, kind: models.EventWon},
				{userID: *previous, kind: models.EventOutbid},
			}}, nil
		}
	}
	switch {
	case bid.MaxBid != nil:
		next.StandingMaxBid = lo.ToPtr(*bid.MaxBid)
	case previous != nil && *previous == bid.BidderID && current.StandingMaxBid != nil && *current.StandingMaxBid > bid.Amount:
		// 自己加價但沒有給新的上限，保留原本的上限
	default:
		next.StandingMaxBid = nil
	}
	notices := []notice{{userID: current.SellerID, kind: models.EventNewBid}}
	if previous != nil && *previous != bid.BidderID {
		notices = append(notices, notice{userID: *previous, kind: models.EventOutbid})
	}
	return decision{next: next, bid: bid, notices: notices}, nil
}

func decideDown(current models.Auction, bid models.Bid, now time.Time) (decision, error) {
	if bid.MaxBid != nil {
		return decision{}, fmt.Errorf("%w: max bid is not supported by down auctions", ErrInvalidAmount)
	}
	// 價格可能在使用者讀取後又被調降，必須等於目前價格
	if bid.Amount != current.CurrentPrice {
		return decision{}, &PriceError{Err: ErrInvalidAmount, Reason: "amount does not match the current price", Price: current.CurrentPrice}
	}
	next := current
	next.BidCount++
	next.HighestBidderID = lo.ToPtr(bid.BidderID)
	next.HighestBidID = lo.ToPtr(bid.ID)
	markSold(&next, bid.ID, now)
	return decision{next: next, bid: bid, notices: []notice{
		{userID: current.SellerID, kind: models.EventSold},
		{userID: bid.BidderID, kind: models.EventWon},
	}}, nil
}

// settleDue 結算已經到期但仍是 Active 的拍賣
// 有最高出價的 Up 拍賣成交給最高出價者，其餘轉為 Expired
func settleDue(current models.Auction, now time.Time) (models.Auction, []notice, bool) {
	if current.Status != models.AuctionStatusActive || now.Before(current.EndsAt) {
		return current, nil, false
	}
	next := current
	next.StandingMaxBid = nil
	if current.Type == models.AuctionTypeUp && current.HighestBidderID != nil && current.HighestBidID != nil {
		markSold(&next, *current.HighestBidID, now)
		return next, []notice{
			{userID: current.SellerID, kind: models.EventSold},
			{userID: *current.HighestBidderID, kind: models.EventWon},
		}, true
	}
	next.Status = models.AuctionStatusExpired
	next.ClosedAt = lo.ToPtr(now)
	return next, []notice{{userID: current.SellerID, kind: models.EventExpired}}, true
}

// decideCancel 賣家取消進行中的拍賣
func decideCancel(current models.Auction, sellerID uuid.UUID, now time.Time) (models.Auction, []notice, error) {
	if sellerID != current.SellerID {
		return current, nil, ErrNotSeller
	}
	if !current.Open(now) {
		return current, nil, fmt.Errorf("%w: status=%s", ErrAuctionClosed, current.Status)
	}
	next := current
	next.Status = models.AuctionStatusCancelled
	next.StandingMaxBid = nil
	next.ClosedAt = lo.ToPtr(now)
	var notices []notice
	if current.HighestBidderID != nil {
		notices = append(notices, notice{userID: *current.HighestBidderID, kind: models.EventCancelled})
	}
	return next, notices, nil
}

// decideReprice 調降 Down 拍賣的目前價格
func decideReprice(current models.Auction, sellerID uuid.UUID, price int64, now time.Time) (models.Auction, error) {
	if sellerID != current.SellerID {
		return current, ErrNotSeller
	}
	if !current.Open(now) {
		return current, fmt.Errorf("%w: status=%s", ErrAuctionClosed, current.Status)
	}
	if current.Type != models.AuctionTypeDown {
		return current, fmt.Errorf("%w: only down auctions can be repriced", ErrInvalidAmount)
	}
	if price <= 0 || price >= current.CurrentPrice {
		return current, fmt.Errorf("%w: new price must be positive and below %d", ErrInvalidAmount, current.CurrentPrice)
	}
	next := current
	next.CurrentPrice = price
	return next, nil
}

func markSold(a *models.Auction, winningBidID uuid.UUID, now time.Time) {
	a.Status = models.AuctionStatusSold
	a.WinningBidID = lo.ToPtr(winningBidID)
	a.ClosedAt = lo.ToPtr(now)
}
