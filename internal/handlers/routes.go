package handlers

import "github.com/go-chi/chi/v5"

// Routes регистрирует все маршруты API на роутере
func Routes(r chi.Router, h TaskHandler) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetActiveTasks) // GET /tasks
		r.Post("/", h.PostTask)      // POST /tasks

		r.Get("/completed", h.GetCompletedTasks) // GET /tasks/completed
		r.Post("/import", h.ImportCalendar)      // POST /tasks/import

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", h.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/complete", h.CompleteTask)     // POST /tasks/{id}/complete
			r.Post("/uncomplete", h.UncompleteTask) // POST /tasks/{id}/uncomplete
		})
	})

	r.Get("/reports/weekly", h.WeeklyReport) // GET /reports/weekly?week=|date=&format=

	r.Route("/admin/tasks", func(r chi.Router) {
		r.Get("/deleted", h.GetDeletedTasks) // GET /admin/tasks/deleted

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/restore", h.RestoreTask) // POST /admin/tasks/{id}/restore
			r.Delete("/purge", h.PurgeTask)   // DELETE /admin/tasks/{id}/purge
		})
	})

	r.Get("/health", h.HealthCheck)
}
