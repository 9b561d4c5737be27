// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/sina38030/final-bahamm-sub002/pkg/api"
)

// GroupBuyServiceName is the fully-qualified name of the GroupBuyService service.
const GroupBuyServiceName = "bahamm.v1.GroupBuyService"

// These constants are the fully-qualified names of the RPCs defined in GroupBuyService.
const (
	GroupBuyServiceQuoteBasketProcedure      = "/bahamm.v1.GroupBuyService/QuoteBasket"
	GroupBuyServiceCreateGroupProcedure      = "/bahamm.v1.GroupBuyService/CreateGroup"
	GroupBuyServiceGetGroupProcedure         = "/bahamm.v1.GroupBuyService/GetGroup"
	GroupBuyServiceListGroupsProcedure       = "/bahamm.v1.GroupBuyService/ListGroups"
	GroupBuyServiceJoinGroupProcedure        = "/bahamm.v1.GroupBuyService/JoinGroup"
	GroupBuyServiceConfirmPaymentProcedure   = "/bahamm.v1.GroupBuyService/ConfirmPayment"
	GroupBuyServiceFinalizeGroupProcedure    = "/bahamm.v1.GroupBuyService/FinalizeGroup"
	GroupBuyServiceSettleGroupProcedure      = "/bahamm.v1.GroupBuyService/SettleGroup"
	GroupBuyServiceGetInviteProcedure        = "/bahamm.v1.GroupBuyService/GetInvite"
	GroupBuyServiceResolveInviteProcedure    = "/bahamm.v1.GroupBuyService/ResolveInvite"
	GroupBuyServiceAcknowledgeEventProcedure = "/bahamm.v1.GroupBuyService/AcknowledgeEvent"
)

// GroupBuyServiceClient is a client for the bahamm.v1.GroupBuyService service.
type GroupBuyServiceClient interface {
	QuoteBasket(context.Context, *connect.Request[api.QuoteBasketRequest]) (*connect.Response[api.QuoteBasketResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	FinalizeGroup(context.Context, *connect.Request[api.FinalizeGroupRequest]) (*connect.Response[api.FinalizeGroupResponse], error)
	SettleGroup(context.Context, *connect.Request[api.SettleGroupRequest]) (*connect.Response[api.SettleGroupResponse], error)
	GetInvite(context.Context, *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error)
	ResolveInvite(context.Context, *connect.Request[api.ResolveInviteRequest]) (*connect.Response[api.ResolveInviteResponse], error)
	AcknowledgeEvent(context.Context, *connect.Request[api.AcknowledgeEventRequest]) (*connect.Response[api.AcknowledgeEventResponse], error)
}

// NewGroupBuyServiceClient constructs a client for the bahamm.v1.GroupBuyService service.
// The JSON codec is always used; opts may add interceptors and other options.
func NewGroupBuyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupBuyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &groupBuyServiceClient{
		quoteBasket: connect.NewClient[api.QuoteBasketRequest, api.QuoteBasketResponse](
			httpClient,
			baseURL+GroupBuyServiceQuoteBasketProcedure,
			opts...,
		),
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+GroupBuyServiceCreateGroupProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupBuyServiceGetGroupProcedure,
			opts...,
		),
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient,
			baseURL+GroupBuyServiceListGroupsProcedure,
			opts...,
		),
		joinGroup: connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](
			httpClient,
			baseURL+GroupBuyServiceJoinGroupProcedure,
			opts...,
		),
		confirmPayment: connect.NewClient[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse](
			httpClient,
			baseURL+GroupBuyServiceConfirmPaymentProcedure,
			opts...,
		),
		finalizeGroup: connect.NewClient[api.FinalizeGroupRequest, api.FinalizeGroupResponse](
			httpClient,
			baseURL+GroupBuyServiceFinalizeGroupProcedure,
			opts...,
		),
		settleGroup: connect.NewClient[api.SettleGroupRequest, api.SettleGroupResponse](
			httpClient,
			baseURL+GroupBuyServiceSettleGroupProcedure,
			opts...,
		),
		getInvite: connect.NewClient[api.GetInviteRequest, api.GetInviteResponse](
			httpClient,
			baseURL+GroupBuyServiceGetInviteProcedure,
			opts...,
		),
		resolveInvite: connect.NewClient[api.ResolveInviteRequest, api.ResolveInviteResponse](
			httpClient,
			baseURL+GroupBuyServiceResolveInviteProcedure,
			opts...,
		),
		acknowledgeEvent: connect.NewClient[api.AcknowledgeEventRequest, api.AcknowledgeEventResponse](
			httpClient,
			baseURL+GroupBuyServiceAcknowledgeEventProcedure,
			opts...,
		),
	}
}

// groupBuyServiceClient implements GroupBuyServiceClient.
type groupBuyServiceClient struct {
	quoteBasket      *connect.Client[api.QuoteBasketRequest, api.QuoteBasketResponse]
	createGroup      *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup         *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups       *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	joinGroup        *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
	confirmPayment   *connect.Client[api.ConfirmPaymentRequest, api.ConfirmPaymentResponse]
	finalizeGroup    *connect.Client[api.FinalizeGroupRequest, api.FinalizeGroupResponse]
	settleGroup      *connect.Client[api.SettleGroupRequest, api.SettleGroupResponse]
	getInvite        *connect.Client[api.GetInviteRequest, api.GetInviteResponse]
	resolveInvite    *connect.Client[api.ResolveInviteRequest, api.ResolveInviteResponse]
	acknowledgeEvent *connect.Client[api.AcknowledgeEventRequest, api.AcknowledgeEventResponse]
}

// QuoteBasket calls bahamm.v1.GroupBuyService.QuoteBasket.
func (c *groupBuyServiceClient) QuoteBasket(ctx context.Context, req *connect.Request[api.QuoteBasketRequest]) (*connect.Response[api.QuoteBasketResponse], error) {
	return c.quoteBasket.CallUnary(ctx, req)
}

// CreateGroup calls bahamm.v1.GroupBuyService.CreateGroup.
func (c *groupBuyServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// GetGroup calls bahamm.v1.GroupBuyService.GetGroup.
func (c *groupBuyServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

// ListGroups calls bahamm.v1.GroupBuyService.ListGroups.
func (c *groupBuyServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

// JoinGroup calls bahamm.v1.GroupBuyService.JoinGroup.
func (c *groupBuyServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

// ConfirmPayment calls bahamm.v1.GroupBuyService.ConfirmPayment.
func (c *groupBuyServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

// FinalizeGroup calls bahamm.v1.GroupBuyService.FinalizeGroup.
func (c *groupBuyServiceClient) FinalizeGroup(ctx context.Context, req *connect.Request[api.FinalizeGroupRequest]) (*connect.Response[api.FinalizeGroupResponse], error) {
	return c.finalizeGroup.CallUnary(ctx, req)
}

// SettleGroup calls bahamm.v1.GroupBuyService.SettleGroup.
func (c *groupBuyServiceClient) SettleGroup(ctx context.Context, req *connect.Request[api.SettleGroupRequest]) (*connect.Response[api.SettleGroupResponse], error) {
	return c.settleGroup.CallUnary(ctx, req)
}

// GetInvite calls bahamm.v1.GroupBuyService.GetInvite.
func (c *groupBuyServiceClient) GetInvite(ctx context.Context, req *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	return c.getInvite.CallUnary(ctx, req)
}

// ResolveInvite calls bahamm.v1.GroupBuyService.ResolveInvite.
func (c *groupBuyServiceClient) ResolveInvite(ctx context.Context, req *connect.Request[api.ResolveInviteRequest]) (*connect.Response[api.ResolveInviteResponse], error) {
	return c.resolveInvite.CallUnary(ctx, req)
}

// AcknowledgeEvent calls bahamm.v1.GroupBuyService.AcknowledgeEvent.
func (c *groupBuyServiceClient) AcknowledgeEvent(ctx context.Context, req *connect.Request[api.AcknowledgeEventRequest]) (*connect.Response[api.AcknowledgeEventResponse], error) {
	return c.acknowledgeEvent.CallUnary(ctx, req)
}

// GroupBuyServiceHandler is an implementation of the bahamm.v1.GroupBuyService service.
type GroupBuyServiceHandler interface {
	QuoteBasket(context.Context, *connect.Request[api.QuoteBasketRequest]) (*connect.Response[api.QuoteBasketResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.ConfirmPaymentResponse], error)
	FinalizeGroup(context.Context, *connect.Request[api.FinalizeGroupRequest]) (*connect.Response[api.FinalizeGroupResponse], error)
	SettleGroup(context.Context, *connect.Request[api.SettleGroupRequest]) (*connect.Response[api.SettleGroupResponse], error)
	GetInvite(context.Context, *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error)
	ResolveInvite(context.Context, *connect.Request[api.ResolveInviteRequest]) (*connect.Response[api.ResolveInviteResponse], error)
	AcknowledgeEvent(context.Context, *connect.Request[api.AcknowledgeEventRequest]) (*connect.Response[api.AcknowledgeEventResponse], error)
}

// NewGroupBuyServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewGroupBuyServiceHandler(svc GroupBuyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	groupBuyServiceQuoteBasketHandler := connect.NewUnaryHandler(
		GroupBuyServiceQuoteBasketProcedure,
		svc.QuoteBasket,
		opts...,
	)
	groupBuyServiceCreateGroupHandler := connect.NewUnaryHandler(
		GroupBuyServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	groupBuyServiceGetGroupHandler := connect.NewUnaryHandler(
		GroupBuyServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	groupBuyServiceListGroupsHandler := connect.NewUnaryHandler(
		GroupBuyServiceListGroupsProcedure,
		svc.ListGroups,
		opts...,
	)
	groupBuyServiceJoinGroupHandler := connect.NewUnaryHandler(
		GroupBuyServiceJoinGroupProcedure,
		svc.JoinGroup,
		opts...,
	)
	groupBuyServiceConfirmPaymentHandler := connect.NewUnaryHandler(
		GroupBuyServiceConfirmPaymentProcedure,
		svc.ConfirmPayment,
		opts...,
	)
	groupBuyServiceFinalizeGroupHandler := connect.NewUnaryHandler(
		GroupBuyServiceFinalizeGroupProcedure,
		svc.FinalizeGroup,
		opts...,
	)
	groupBuyServiceSettleGroupHandler := connect.NewUnaryHandler(
		GroupBuyServiceSettleGroupProcedure,
		svc.SettleGroup,
		opts...,
	)
	groupBuyServiceGetInviteHandler := connect.NewUnaryHandler(
		GroupBuyServiceGetInviteProcedure,
		svc.GetInvite,
		opts...,
	)
	groupBuyServiceResolveInviteHandler := connect.NewUnaryHandler(
		GroupBuyServiceResolveInviteProcedure,
		svc.ResolveInvite,
		opts...,
	)
	groupBuyServiceAcknowledgeEventHandler := connect.NewUnaryHandler(
		GroupBuyServiceAcknowledgeEventProcedure,
		svc.AcknowledgeEvent,
		opts...,
	)
	return "/bahamm.v1.GroupBuyService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupBuyServiceQuoteBasketProcedure:
			groupBuyServiceQuoteBasketHandler.ServeHTTP(w, r)
		case GroupBuyServiceCreateGroupProcedure:
			groupBuyServiceCreateGroupHandler.ServeHTTP(w, r)
		case GroupBuyServiceGetGroupProcedure:
			groupBuyServiceGetGroupHandler.ServeHTTP(w, r)
		case GroupBuyServiceListGroupsProcedure:
			groupBuyServiceListGroupsHandler.ServeHTTP(w, r)
		case GroupBuyServiceJoinGroupProcedure:
			groupBuyServiceJoinGroupHandler.ServeHTTP(w, r)
		case GroupBuyServiceConfirmPaymentProcedure:
			groupBuyServiceConfirmPaymentHandler.ServeHTTP(w, r)
		case GroupBuyServiceFinalizeGroupProcedure:
			groupBuyServiceFinalizeGroupHandler.ServeHTTP(w, r)
		case GroupBuyServiceSettleGroupProcedure:
			groupBuyServiceSettleGroupHandler.ServeHTTP(w, r)
		case GroupBuyServiceGetInviteProcedure:
			groupBuyServiceGetInviteHandler.ServeHTTP(w, r)
		case GroupBuyServiceResolveInviteProcedure:
			groupBuyServiceResolveInviteHandler.ServeHTTP(w, r)
		case GroupBuyServiceAcknowledgeEventProcedure:
			groupBuyServiceAcknowledgeEventHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
