package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendly/internal/errors"
	"spendly/internal/models"
	"spendly/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense creates a new expense for a user.
func (s *expenseService) CreateExpense(
	userID uint,
	categoryID *uint,
	amount int64,
	description string,
	date time.Time,
	notes, receiptURL string,
	source models.ExpenseSource,
) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be positive")
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "description is required")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "date is required")
	}

	// Category, when given, must belong to the user.
	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if source == "" {
		source = models.ExpenseSourceManual
	}

	expense := &models.Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Notes:       notes,
		ReceiptURL:  receiptURL,
		Source:      source,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// applyFilter adds the optional expense filters to a query.
func applyFilter(q *gorm.DB, filter ExpenseFilter) *gorm.DB {
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinAmount != nil {
		q = q.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q = q.Where("amount <= ?", *filter.MaxAmount)
	}
	if filter.Search != "" {
		q = q.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Source != nil {
		q = q.Where("source = ?", *filter.Source)
	}
	return q
}

// GetUserExpenses retrieves a paginated, filtered list of expenses for a user,
// newest first.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyFilter(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Preload("Category").
		Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an existing expense's fields.
func (s *expenseService) UpdateExpense(
	userID, expenseID uint,
	categoryID *uint,
	amount *int64,
	description string,
	date *time.Time,
	notes *string,
) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	updates := make(map[string]interface{})
	if categoryID != nil {
		updates["category_id"] = *categoryID
	}
	if amount != nil {
		if *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be positive")
		}
		updates["amount"] = *amount
	}
	if description != "" {
		updates["description"] = description
	}
	if date != nil {
		updates["date"] = *date
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SumInWindow returns the total expense amount in cents for [start, end).
func (s *expenseService) SumInWindow(userID uint, start, end time.Time) (int64, error) {
	var total int64
	err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// RecentExpenses returns the user's most recent expenses, newest first.
func (s *expenseService) RecentExpenses(userID uint, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		limit = 5
	}
	var expenses []models.Expense
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// CategoryTotals returns per-category spend totals for [start, end),
// largest first. Uncategorized expenses are grouped under a nil category.
func (s *expenseService) CategoryTotals(userID uint, start, end time.Time) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	err := s.db.Model(&models.Expense{}).
		Select("expenses.category_id AS category_id, COALESCE(categories.name, 'Uncategorized') AS category_name, SUM(expenses.amount) AS total, COUNT(expenses.id) AS count").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.date >= ? AND expenses.date < ?", userID, start, end).
		Group("expenses.category_id, categories.name").
		Order("total DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

// MonthlyTotals returns spend totals for the last `months` calendar months
// up to and including the month containing now, oldest first. Month windows
// are computed in now's location, one query per month to stay portable
// across postgres and sqlite.
func (s *expenseService) MonthlyTotals(userID uint, months int, now time.Time) ([]MonthTotal, error) {
	if months <= 0 {
		months = 6
	}

	loc := now.Location()
	totals := make([]MonthTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		total, err := s.SumInWindow(userID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		totals = append(totals, MonthTotal{
			Month: monthStart.Format("2006-01"),
			Total: total,
		})
	}
	return totals, nil
}
