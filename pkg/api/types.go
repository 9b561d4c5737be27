// Package api defines the request and response messages of the group-buy
// service. Messages are plain structs carried as JSON by apiconnect.
package api

import "time"

// BasketItem is one cart line. Prices are in the smallest currency unit.
type BasketItem struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name,omitempty"`
	Quantity     int64  `json:"quantity"`
	SoloPrice    int64  `json:"soloPrice,omitempty"`
	MarketPrice  int64  `json:"marketPrice,omitempty"`
	BasePrice    int64  `json:"basePrice,omitempty"`
	Friend1Price *int64 `json:"friend1Price,omitempty"`
	Friend2Price *int64 `json:"friend2Price,omitempty"`
	Friend3Price *int64 `json:"friend3Price,omitempty"`
}

type Participant struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Role          string     `json:"role"`
	JoinedAt      time.Time  `json:"joinedAt"`
	Paid          bool       `json:"paid"`
	PaymentAmount int64      `json:"paymentAmount,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// Group is the public view of a purchase group.
type Group struct {
	ID                   string        `json:"id"`
	Kind                 string        `json:"kind"`
	LeaderID             string        `json:"leaderId"`
	Status               string        `json:"status"`
	Items                []BasketItem  `json:"items"`
	ExpectedFriends      int           `json:"expectedFriends"`
	MinJoinersForSuccess int           `json:"minJoinersForSuccess"`
	InitialLeaderPayment int64         `json:"initialLeaderPayment"`
	PaidFriends          int           `json:"paidFriends"`
	CurrentPrice         int64         `json:"currentPrice"`
	InviteToken          string        `json:"inviteToken"`
	CreatedAt            time.Time     `json:"createdAt"`
	ExpiresAt            time.Time     `json:"expiresAt"`
	FinalizedAt          *time.Time    `json:"finalizedAt,omitempty"`
	Participants         []Participant `json:"participants"`
}

type PaymentInstruction struct {
	Required  bool   `json:"required"`
	Amount    int64  `json:"amount"`
	Direction string `json:"direction,omitempty"`
}

// Settlement is the reconciliation of a closed group.
type Settlement struct {
	GroupID              string             `json:"groupId"`
	Status               string             `json:"status"`
	FinalPrice           int64              `json:"finalPrice"`
	InitialLeaderPayment int64              `json:"initialLeaderPayment"`
	ExpectedFriends      int                `json:"expectedFriends"`
	PaidFriends          int                `json:"paidFriends"`
	Delta                int64              `json:"delta"`
	Outcome              string             `json:"outcome"`
	Instruction          PaymentInstruction `json:"instruction"`
}

type TierQuote struct {
	Friends int   `json:"friends"`
	Price   int64 `json:"price"`
}

type QuoteBasketRequest struct {
	Kind  string       `json:"kind"`
	Items []BasketItem `json:"items"`
}

type QuoteBasketResponse struct {
	Tiers                  []TierQuote `json:"tiers"`
	RequiredFriendsForFree int         `json:"requiredFriendsForFree"`
	// InvalidProducts lists lines without a derivable solo price; they are priced at 0.
	InvalidProducts []string `json:"invalidProducts,omitempty"`
}

type CreateGroupRequest struct {
	Kind                 string       `json:"kind"`
	Items                []BasketItem `json:"items"`
	ExpectedFriends      int          `json:"expectedFriends"`
	MinJoinersForSuccess int          `json:"minJoinersForSuccess,omitempty"`
	PaymentAuthority     string       `json:"paymentAuthority,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group            *Group    `json:"group"`
	ServerTime       time.Time `json:"serverTime"`
	RemainingSeconds int64     `json:"remainingSeconds"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type JoinGroupRequest struct {
	InviteToken string `json:"inviteToken"`
}

type JoinGroupResponse struct {
	Group         *Group `json:"group"`
	ParticipantID string `json:"participantId"`
}

type ConfirmPaymentRequest struct {
	GroupID       string `json:"groupId"`
	ParticipantID string `json:"participantId"`
	Amount        int64  `json:"amount"`
}

type ConfirmPaymentResponse struct {
	Group *Group `json:"group"`
	// Recorded is false when the payment had already been confirmed.
	Recorded bool `json:"recorded"`
}

type FinalizeGroupRequest struct {
	GroupID string `json:"groupId"`
}

type FinalizeGroupResponse struct {
	Group      *Group      `json:"group"`
	Settlement *Settlement `json:"settlement,omitempty"`
}

type SettleGroupRequest struct {
	GroupID string `json:"groupId"`
}

type SettleGroupResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetInviteRequest struct {
	GroupID string `json:"groupId"`
	QRSize  int    `json:"qrSize,omitempty"`
}

type GetInviteResponse struct {
	Token     string            `json:"token"`
	InviteURL string            `json:"inviteUrl"`
	ShareURLs map[string]string `json:"shareUrls"`
	QRPng     []byte            `json:"qrPng,omitempty"`
	Message   string            `json:"message"`
}

type ResolveInviteRequest struct {
	InviteToken string `json:"inviteToken"`
}

type ResolveInviteResponse struct {
	Group            *Group `json:"group"`
	Open             bool   `json:"open"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

type AcknowledgeEventRequest struct {
	Event string `json:"event"`
}

type AcknowledgeEventResponse struct {
	// FirstTime is true the first time the caller acknowledges the event.
	FirstTime bool `json:"firstTime"`
}
