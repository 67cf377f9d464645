package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"q4auction/api/openapi"
	"q4auction/engine"
	"q4auction/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxTitleLength  = 255
)

var _ openapi.StrictServerInterface = (*ServerImpl)(nil)

var errNotificationsDisabled = errors.New("notifications are not stored by this server")

var (
	auctionTypes = []openapi.AuctionType{openapi.AuctionTypeUp, openapi.AuctionTypeDown}
	visibilities = []openapi.BidVisibility{openapi.BidVisibilityPublic, openapi.BidVisibilityPrivate}
	statuses     = []openapi.AuctionStatus{openapi.AuctionStatusActive, openapi.AuctionStatusSold, openapi.AuctionStatusExpired, openapi.AuctionStatusCancelled}
	sortOrders   = []openapi.SortOrder{openapi.SortOrderAsc, openapi.SortOrderDesc}
)

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// validateCreateAuction 檢查建立拍賣的欄位與欄位之間的關係
func validateCreateAuction(body openapi.CreateAuctionRequest, now time.Time) error {
	if !lo.Contains(auctionTypes, body.Type) {
		return invalidRequest("unknown auction type %q", body.Type)
	}
	if body.Visibility != nil && !lo.Contains(visibilities, *body.Visibility) {
		return invalidRequest("unknown visibility %q", *body.Visibility)
	}
	if len(body.Title) > maxTitleLength {
		return invalidRequest("title is longer than %d characters", maxTitleLength)
	}
	if body.StartingPrice <= 0 {
		return invalidRequest("starting_price must be positive")
	}
	if lo.FromPtr(body.BidIncrement) < 0 {
		return invalidRequest("bid_increment cannot be negative")
	}
	if !body.EndsAt.After(now) {
		return invalidRequest("ends_at must be in the future")
	}
	switch body.Type {
	case openapi.AuctionTypeUp:
		if lo.FromPtr(body.BidIncrement) <= 0 {
			return invalidRequest("bid_increment must be positive for up auctions")
		}
		if body.InstantPrice != nil && *body.InstantPrice <= body.StartingPrice {
			return invalidRequest("instant_price must be above starting_price")
		}
	case openapi.AuctionTypeDown:
		if body.InstantPrice != nil {
			return invalidRequest("instant_price is not supported by down auctions")
		}
	}
	return nil
}

// pageSize 檢查分頁大小，沒有指定時使用預設值
func pageSize(size *int) (int, error) {
	if size == nil {
		return defaultPageSize, nil
	}
	if *size < 1 || *size > maxPageSize {
		return 0, invalidRequest("size must be between 1 and %d", maxPageSize)
	}
	return *size, nil
}

// auctionQuery 把列表的查詢參數轉成儲存層的查詢
func auctionQuery(params openapi.ListAuctionsParams) (models.AuctionQuery, error) {
	limit, err := pageSize(params.Size)
	if err != nil {
		return models.AuctionQuery{}, err
	}
	q := models.AuctionQuery{
		Title:    lo.FromPtr(params.Title),
		SellerID: params.SellerId,
		LastID:   params.LastId,
		Limit:    limit,
	}
	if params.Status != nil {
		if !lo.Contains(statuses, *params.Status) {
			return models.AuctionQuery{}, invalidRequest("unknown status %q", *params.Status)
		}
		q.Status = lo.ToPtr(models.AuctionStatus(*params.Status))
	}
	if params.Sort != nil {
		q.SortKey = models.AuctionSortKey(*params.Sort)
		if !q.SortKey.Valid() {
			return models.AuctionQuery{}, invalidRequest("unknown sort key %q", *params.Sort)
		}
	}
	if params.Order != nil {
		if !lo.Contains(sortOrders, *params.Order) {
			return models.AuctionQuery{}, invalidRequest("unknown order %q", *params.Order)
		}
		q.Desc = *params.Order == openapi.SortOrderDesc
	}
	return q, nil
}

func countdown(r engine.Remaining) openapi.Countdown {
	return openapi.Countdown{
		Days:      r.Days,
		Hours:     r.Hours,
		Minutes:   r.Minutes,
		Seconds:   r.Seconds,
		IsExpired: r.IsExpired,
	}
}

// newAuction 私人出價的拍賣在進行中只有賣家能看到價格與最高出價者
func newAuction(a models.Auction, viewerID uuid.UUID, now time.Time) openapi.Auction {
	resp := openapi.Auction{
		Id:            a.ID,
		SellerId:      a.SellerID,
		Title:         a.Title,
		Description:   a.Description,
		Type:          openapi.AuctionType(a.Type),
		StartingPrice: a.StartingPrice,
		BidIncrement:  a.BidIncrement,
		InstantPrice:  a.InstantPrice,
		Visibility:    openapi.BidVisibility(a.Visibility),
		Status:        openapi.AuctionStatus(a.Status),
		EndsAt:        a.EndsAt,
		WinningBidId:  a.WinningBidID,
		BidCount:      a.BidCount,
		Version:       a.Version,
		ClosedAt:      a.ClosedAt,
		CreatedAt:     a.CreatedAt,
		Countdown:     countdown(engine.TimeRemaining(a.EndsAt, now)),
	}
	if !a.PriceHiddenFor(viewerID) {
		resp.CurrentPrice = lo.ToPtr(a.CurrentPrice)
		resp.HighestBidderId = a.HighestBidderID
	}
	return resp
}

// newBid 自動出價的上限只給出價者本人看
func newBid(b models.Bid, hidden bool, viewerID uuid.UUID) openapi.Bid {
	resp := openapi.Bid{
		Id:        b.ID,
		BidderId:  b.BidderID,
		Outcome:   openapi.BidOutcome(b.Outcome),
		Reason:    lo.EmptyableToPtr(b.Reason),
		CreatedAt: b.CreatedAt,
	}
	if !hidden || b.BidderID == viewerID {
		resp.Amount = lo.ToPtr(b.Amount)
	}
	if b.BidderID == viewerID {
		resp.MaxBid = b.MaxBid
	}
	return resp
}

// loadAuction 讀取拍賣，到期但仍是 Active 的拍賣先結算再回傳
func (impl *ServerImpl) loadAuction(ctx context.Context, auctionID uuid.UUID) (models.Auction, error) {
	auction, err := impl.store.Get(ctx, auctionID)
	if err != nil {
		return models.Auction{}, err
	}
	if auction.Status == models.AuctionStatusActive && !impl.now().Before(auction.EndsAt) {
		settled, err := impl.engine.Settle(ctx, auctionID)
		if err != nil {
			// 結算失敗 (例如被其他請求搶先) 時仍然回傳讀到的狀態，下次讀取或排程會再結算
			impl.logger.Warn("Fail to settle due auction on read", slog.String("auctionID", auctionID.String()), slog.Any("error", err))
			return auction, nil
		}
		return settled, nil
	}
	return auction, nil
}

// List auctions with cursor pagination
// (GET /auctions)
func (impl *ServerImpl) ListAuctions(ctx context.Context, request openapi.ListAuctionsRequestObject) (openapi.ListAuctionsResponseObject, error) {
	const op = "ListAuctions"
	query, err := auctionQuery(request.Params)
	if err != nil {
		return openapi.ListAuctionsdefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: openapi.Error{Error: err.Error()}}, nil
	}
	auctions, err := impl.store.ListAuctions(requestContext(ctx), query)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.ListAuctionsdefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to list auctions, err=%w", op, err)
	}
	viewer, now := currentUser(ctx), impl.now()
	return openapi.ListAuctions200JSONResponse{
		Count: len(auctions),
		Items: lo.Map(auctions, func(a models.Auction, _ int) openapi.Auction {
			return newAuction(a, viewer, now)
		}),
	}, nil
}

// Create an auction owned by the caller
// (POST /auctions)
func (impl *ServerImpl) CreateAuction(ctx context.Context, request openapi.CreateAuctionRequestObject) (openapi.CreateAuctionResponseObject, error) {
	const op = "CreateAuction"
	body := *request.Body
	now := impl.now()
	if err := validateCreateAuction(body, now); err != nil {
		return openapi.CreateAuctiondefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: openapi.Error{Error: err.Error()}}, nil
	}
	// 處理拍賣標題與描述
	title := strings.TrimSpace(impl.htmlChecker.Sanitize(body.Title))
	if title == "" {
		return openapi.CreateAuctiondefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: openapi.Error{Error: invalidRequest("title cannot be empty").Error()}}, nil
	}

	auction := models.Auction{
		ID:            uuid.Must(uuid.NewV7()),
		SellerID:      currentUser(ctx),
		Title:         title,
		Description:   impl.htmlChecker.Sanitize(lo.FromPtr(body.Description)),
		Type:          models.AuctionType(body.Type),
		StartingPrice: body.StartingPrice,
		CurrentPrice:  body.StartingPrice,
		BidIncrement:  lo.FromPtr(body.BidIncrement),
		InstantPrice:  body.InstantPrice,
		Visibility:    models.BidVisibility(lo.FromPtrOr(body.Visibility, openapi.BidVisibilityPublic)),
		Status:        models.AuctionStatusActive,
		EndsAt:        body.EndsAt.UTC(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := impl.store.Create(requestContext(ctx), auction); err != nil {
		return nil, fmt.Errorf("[%s] Fail to create auction, err=%w", op, err)
	}
	impl.logger.Info("Auction created", slog.String("auctionID", auction.ID.String()), slog.String("seller", auction.SellerID.String()), slog.String("type", string(auction.Type)))
	return openapi.CreateAuction201JSONResponse{
		Body: newAuction(auction, auction.SellerID, now),
		Headers: openapi.CreateAuction201ResponseHeaders{
			Location: "/auctions/" + auction.ID.String(),
		},
	}, nil
}

// Read an auction, settling it first when it is due
// (GET /auctions/{auctionID})
func (impl *ServerImpl) GetAuction(ctx context.Context, request openapi.GetAuctionRequestObject) (openapi.GetAuctionResponseObject, error) {
	const op = "GetAuction"
	auction, err := impl.loadAuction(requestContext(ctx), request.AuctionID)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.GetAuctiondefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to load auction, err=%w", op, err)
	}
	return openapi.GetAuction200JSONResponse(newAuction(auction, currentUser(ctx), impl.now())), nil
}

// Time remaining until the auction ends
// (GET /auctions/{auctionID}/countdown)
func (impl *ServerImpl) GetAuctionCountdown(ctx context.Context, request openapi.GetAuctionCountdownRequestObject) (openapi.GetAuctionCountdownResponseObject, error) {
	const op = "GetAuctionCountdown"
	auction, err := impl.store.Get(requestContext(ctx), request.AuctionID)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.GetAuctionCountdowndefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to load auction, err=%w", op, err)
	}
	return openapi.GetAuctionCountdown200JSONResponse(countdown(engine.TimeRemaining(auction.EndsAt, impl.now()))), nil
}

// Bid ledger of an auction, newest first
// (GET /auctions/{auctionID}/bids)
func (impl *ServerImpl) ListAuctionBids(ctx context.Context, request openapi.ListAuctionBidsRequestObject) (openapi.ListAuctionBidsResponseObject, error) {
	const op = "ListAuctionBids"
	reqCtx := requestContext(ctx)
	auction, err := impl.loadAuction(reqCtx, request.AuctionID)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.ListAuctionBidsdefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to load auction, err=%w", op, err)
	}
	bids, err := impl.store.ListBids(reqCtx, request.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list bids, err=%w", op, err)
	}
	viewer := currentUser(ctx)
	hidden := auction.PriceHiddenFor(viewer)
	return openapi.ListAuctionBids200JSONResponse{
		Count: len(bids),
		Items: lo.Map(bids, func(b models.Bid, _ int) openapi.Bid {
			return newBid(b, hidden, viewer)
		}),
	}, nil
}

// Submit a bid
// (POST /auctions/{auctionID}/bids)
func (impl *ServerImpl) PlaceBid(ctx context.Context, request openapi.PlaceBidRequestObject) (openapi.PlaceBidResponseObject, error) {
	const op = "PlaceBid"
	result, err := impl.engine.SubmitBid(requestContext(ctx), engine.BidRequest{
		AuctionID: request.AuctionID,
		BidderID:  currentUser(ctx),
		Amount:    request.Body.Amount,
		MaxBid:    request.Body.MaxBid,
	})
	// 私人出價的拍賣進行中不回傳目前價格，拒絕訊息也不帶金額
	// 賣家不能出價，所以這裡的出價者一定不是賣家
	hidePrice := result.Visibility == models.BidVisibilityPrivate && result.Status == models.AuctionStatusActive
	resp := openapi.BidResult{
		Outcome: lo.EmptyableToPtr(openapi.BidOutcome(result.Outcome)),
		Status:  lo.EmptyableToPtr(openapi.AuctionStatus(result.Status)),
	}
	if result.BidID != uuid.Nil {
		resp.BidId = lo.ToPtr(result.BidID)
	}
	if result.Status != "" && !hidePrice {
		resp.CurrentPrice = lo.ToPtr(result.CurrentPrice)
	}
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			return nil, fmt.Errorf("[%s] Fail to submit bid on auction %s, err=%w", op, request.AuctionID, err)
		}
		resp.Error = lo.ToPtr(publicMessage(err, hidePrice))
		return openapi.PlaceBiddefaultJSONResponse{StatusCode: status, Body: resp}, nil
	}

	switch result.Outcome {
	case models.BidOutcomeAutoOutbid:
		resp.Message = lo.ToPtr("outbid by an automatic bid")
	default:
		resp.Success = true
		resp.InstantWin = lo.ToPtr(result.InstantWin)
		resp.Message = lo.ToPtr(lo.Ternary(result.InstantWin, "auction won at the instant price", "bid accepted"))
	}
	return openapi.PlaceBid200JSONResponse(resp), nil
}

// Cancel an active auction (seller only)
// (POST /auctions/{auctionID}/cancel)
func (impl *ServerImpl) CancelAuction(ctx context.Context, request openapi.CancelAuctionRequestObject) (openapi.CancelAuctionResponseObject, error) {
	const op = "CancelAuction"
	viewer := currentUser(ctx)
	auction, err := impl.engine.Cancel(requestContext(ctx), request.AuctionID, viewer)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.CancelAuctiondefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to cancel auction, err=%w", op, err)
	}
	return openapi.CancelAuction200JSONResponse(newAuction(auction, viewer, impl.now())), nil
}

// Lower the price of an active down auction (seller only)
// (POST /auctions/{auctionID}/price)
func (impl *ServerImpl) RepriceAuction(ctx context.Context, request openapi.RepriceAuctionRequestObject) (openapi.RepriceAuctionResponseObject, error) {
	const op = "RepriceAuction"
	viewer := currentUser(ctx)
	auction, err := impl.engine.Reprice(requestContext(ctx), request.AuctionID, viewer, request.Body.Price)
	if err != nil {
		if status, body, ok := errorBody(err); ok {
			return openapi.RepriceAuctiondefaultJSONResponse{StatusCode: status, Body: body}, nil
		}
		return nil, fmt.Errorf("[%s] Fail to reprice auction, err=%w", op, err)
	}
	return openapi.RepriceAuction200JSONResponse(newAuction(auction, viewer, impl.now())), nil
}

// Notifications delivered to the caller, newest first
// (GET /notifications)
func (impl *ServerImpl) ListNotifications(ctx context.Context, request openapi.ListNotificationsRequestObject) (openapi.ListNotificationsResponseObject, error) {
	const op = "ListNotifications"
	// 沒有資料庫時通知只寫進日誌，沒有可以查詢的紀錄
	if impl.notifications == nil {
		return openapi.ListNotificationsdefaultJSONResponse{StatusCode: http.StatusNotFound, Body: openapi.Error{Error: errNotificationsDisabled.Error()}}, nil
	}
	limit, err := pageSize(request.Params.Size)
	if err != nil {
		return openapi.ListNotificationsdefaultJSONResponse{StatusCode: http.StatusBadRequest, Body: openapi.Error{Error: err.Error()}}, nil
	}
	notifications, err := impl.notifications.ListNotifications(requestContext(ctx), currentUser(ctx), limit)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to list notifications, err=%w", op, err)
	}
	return openapi.ListNotifications200JSONResponse{
		Count: len(notifications),
		Items: lo.Map(notifications, func(n models.Notification, _ int) openapi.Notification {
			return openapi.Notification{
				Id:        n.ID,
				Kind:      openapi.EventKind(n.Kind),
				AuctionId: n.AuctionID,
				BidId:     n.BidID,
				Price:     n.Price,
				Status:    openapi.AuctionStatus(n.Status),
				EventTime: n.EventTime,
			}
		}),
	}, nil
}
