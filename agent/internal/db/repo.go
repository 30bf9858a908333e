package db

import "gorm.io/gorm"

type RefreshRunRepository struct{ db *gorm.DB }

func NewRefreshRunRepository(db *gorm.DB) *RefreshRunRepository {
	return &RefreshRunRepository{db: db}
}

func (r *RefreshRunRepository) Create(run *RefreshRun) error { return r.db.Create(run).Error }

// Latest returns up to limit runs, newest first.
func (r *RefreshRunRepository) Latest(limit int) ([]RefreshRun, error) {
	if limit <= 0 {
		limit = 1
	}
	var runs []RefreshRun
	err := r.db.Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

type VisitRepository struct{ db *gorm.DB }

func NewVisitRepository(db *gorm.DB) *VisitRepository { return &VisitRepository{db: db} }

func (r *VisitRepository) Create(v *BlockedVisit) error { return r.db.Create(v).Error }

func (r *VisitRepository) Latest(limit int) ([]BlockedVisit, error) {
	if limit <= 0 {
		limit = 1
	}
	var visits []BlockedVisit
	err := r.db.Order("id DESC").Limit(limit).Find(&visits).Error
	return visits, err
}

// CountByHost returns how often host hit the warning page.
func (r *VisitRepository) CountByHost(host string) (int64, error) {
	var n int64
	err := r.db.Model(&BlockedVisit{}).Where("host = ?", host).Count(&n).Error
	return n, err
}
