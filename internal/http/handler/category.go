package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/llsaimur/papertrails/internal/service"
)

type categoryBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory creates a category together with its remote document type.
func CreateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var b categoryBody
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		cat, err := svc.Create(c.UserContext(), ownerFromCtx(c), service.CategoryInput{
			Name:        b.Name,
			Description: b.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// ListCategories returns a page of the owner's categories ordered by name.
func ListCategories(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}

		res, err := svc.List(c.UserContext(), ownerFromCtx(c), page, limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetCategory returns one category.
func GetCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		cat, err := svc.Get(c.UserContext(), ownerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// UpdateCategory renames a category locally and remotely.
func UpdateCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var b categoryBody
		if err := c.BodyParser(&b); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		cat, err := svc.Update(c.UserContext(), ownerFromCtx(c), id, service.CategoryInput{
			Name:        b.Name,
			Description: b.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cat)
	}
}

// DeleteCategory removes the category and its remote document type.
func DeleteCategory(svc service.CategoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		name, err := svc.Delete(c.UserContext(), ownerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Category '" + name + "' deleted successfully."})
	}
}
