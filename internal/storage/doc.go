/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the menu persistence service.
// The whole collection of menu items is one JSON array stored under a single key of a kv.Store.
// Every operation reads the full collection, changes it in memory and writes it back, so two
// concurrent writers can lose an update (last writer wins) unless WithSerializedWrites is used.
// Reads never fail: a missing, unreadable or invalid payload is reported as an empty collection.
package storage
