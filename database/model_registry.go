/*
 * Copyright 2025 kestrel-data.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"sort"
	"sync"
)

var defaultRegistry = newEntityRegistry()

// EntityModel represents an entity registered for automatic table creation.
// Instance should return a struct pointer compatible with Bun, and Priority
// controls ordering when creating tables (lower values first).
type EntityModel interface {
	Instance() interface{}
	Priority() int
}

// EntityRegistry stores entity models and exposes them in a deterministic order.
type EntityRegistry interface {
	Register(model EntityModel)
	Models() []EntityModel
}

type entityRegistry struct {
	models []EntityModel
	mutex  sync.RWMutex
}

func newEntityRegistry() EntityRegistry {
	return &entityRegistry{
		models: make([]EntityModel, 0),
	}
}

func (r *entityRegistry) Register(model EntityModel) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.models = append(r.models, model)
}

func (r *entityRegistry) Models() []EntityModel {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]EntityModel, len(r.models))
	copy(result, r.models)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type EntityAdapter struct {
	instance interface{}
	priority int
}

// NewEntityAdapter wraps a struct instance and priority into an EntityModel.
func NewEntityAdapter(instance interface{}, priority int) EntityModel {
	return &EntityAdapter{
		instance: instance,
		priority: priority,
	}
}

// Instance returns the underlying struct used for table creation.
func (a *EntityAdapter) Instance() interface{} {
	return a.instance
}

// Priority returns the model's ordering value; lower values run earlier.
func (a *EntityAdapter) Priority() int {
	return a.priority
}

// GetRegisteredModels returns all models registered in the default registry
// sorted by ascending priority.
func GetRegisteredModels() []EntityModel {
	return defaultRegistry.Models()
}

// RegisterModel adds an entity model to the default registry.
func RegisterModel(model EntityModel) {
	defaultRegistry.Register(model)
}

func RegisteredModelInstances() []interface{} {
	models := GetRegisteredModels()
	modelInstances := make([]interface{}, len(models))
	for i, model := range models {
		modelInstances[i] = model.Instance()
	}
	return modelInstances
}
