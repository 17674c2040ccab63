package handler

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/domain/entity"
	"slawn/internal/usecase"
	"slawn/pkg/errors"
	"slawn/pkg/response"
	"slawn/pkg/utils"
)

// maxUploadSize caps item media uploads.
const maxUploadSize = 32 << 20

type ItemHandler struct {
	itemService  ItemService
	orderService OrderService
}

func NewItemHandler(itemService ItemService, orderService OrderService) *ItemHandler {
	return &ItemHandler{
		itemService:  itemService,
		orderService: orderService,
	}
}

type purchaseRouteResponse struct {
	ItemID       string               `json:"item_id"`
	DeliveryType entity.DeliveryType  `json:"delivery_type"`
	Route        entity.PurchaseRoute `json:"route"`
}

func (h *ItemHandler) ListItems(c echo.Context) error {
	limit := utils.GetLimit(c)

	var (
		items []*usecase.ItemView
		err   error
	)
	if seller := c.QueryParam("seller"); seller != "" {
		items, err = h.itemService.ListSellerItems(c.Request().Context(), seller, limit)
	} else {
		items, err = h.itemService.ListItems(c.Request().Context(), c.QueryParam("category"), limit)
	}
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, items, len(items))
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.itemService.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

// GetPurchaseRoute tells the client whether to go straight to checkout or to
// collect a shipping address first.
func (h *ItemHandler) GetPurchaseRoute(c echo.Context) error {
	item, route, err := h.orderService.ClassifyPurchase(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, purchaseRouteResponse{
		ItemID:       item.ID,
		DeliveryType: item.Delivery,
		Route:        route,
	})
}

// CreateItem accepts a multipart form with an optional "file" part.
func (h *ItemHandler) CreateItem(c echo.Context) error {
	seller, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var input usecase.CreateItemInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid item form", err))
	}

	var upload *usecase.Upload
	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > maxUploadSize {
			return response.Error(c, errors.BadRequest("File is too large", nil))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return response.Error(c, errors.BadRequest("Failed to read uploaded file", err))
		}
		defer file.Close()

		upload = &usecase.Upload{
			Reader:      file,
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	item, err := h.itemService.CreateItem(c.Request().Context(), seller, input, upload)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

func (h *ItemHandler) GetStore(c echo.Context) error {
	store, err := h.itemService.GetStore(c.Request().Context(), c.Param("id"), utils.GetLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, store)
}

func (h *ItemHandler) UpdateStoreAbout(c echo.Context) error {
	seller, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var input usecase.UpdateStoreAboutInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	profile, err := h.itemService.UpdateStoreAbout(c.Request().Context(), seller, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}
