package handler

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRouter, dispatchHandler *DispatchHandler, subscriptionHandler *SubscriptionHandler) {
	v1 := router.Group("/api/v1")

	v1.POST("/dispatch", dispatchHandler.HandleDispatch)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("/email", subscriptionHandler.HandleSubscribeEmail)
	subscriptions.DELETE("/email", subscriptionHandler.HandleUnsubscribeEmail)
	subscriptions.POST("/push", subscriptionHandler.HandleSubscribePush)
	subscriptions.DELETE("/push", subscriptionHandler.HandleUnsubscribePush)
}
