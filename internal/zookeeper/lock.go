// internal/zookeeper/lock.go
package zookeeper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const lockRoot = "/streamcart_locks"

// DistributedLock 基于临时顺序节点实现的分布式互斥锁。
// 同一个 resourceID（例如一个 SKU）在任意时刻只有一个持有者。
type DistributedLock struct {
	conn     *Conn
	path     string // 锁目录，例如 /streamcart_locks/sku-LTBX
	lockNode string // 抢锁成功后自己创建的节点
}

// NewDistributedLock 创建一把针对 resourceID 的锁。
// 目录节点按需创建，节点已存在不视为错误。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	for _, p := range []string{lockRoot, lockRoot + "/" + resourceID} {
		exists, _, err := conn.Exists(p)
		if err != nil {
			return nil, fmt.Errorf("failed to check lock node %s: %w", p, err)
		}
		if exists {
			continue
		}
		if _, err := conn.Create(p, []byte{}, 0, zk.WorldACL(zk.PermAll)); err != nil && err != zk.ErrNodeExists {
			return nil, fmt.Errorf("failed to create lock node %s: %w", p, err)
		}
	}
	return &DistributedLock{
		conn: conn,
		path: lockRoot + "/" + resourceID,
	}, nil
}

// Lock 尝试获取锁，获取不到时阻塞等待前驱节点释放。
// 等待超过 waitTimeout 返回错误，避免请求无限堆积。
func (l *DistributedLock) Lock(waitTimeout time.Duration) error {
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte{}, zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath
	deadline := time.Now().Add(waitTimeout)

	for {
		children, _, err := l.conn.Children(l.path)
		if err != nil {
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Strings(children)

		myNodeName := strings.TrimPrefix(l.lockNode, l.path+"/")
		if myNodeName == children[0] {
			return nil // 自己是最小节点，持有锁
		}

		// 只监听自己的前驱节点，避免惊群
		prevNodeIndex := -1
		for i, child := range children {
			if child == myNodeName {
				prevNodeIndex = i - 1
				break
			}
		}
		if prevNodeIndex < 0 {
			return errors.New("cannot find own node among children")
		}
		prevNodePath := l.path + "/" + children[prevNodeIndex]

		exists, _, eventChan, err := l.conn.ExistsW(prevNodePath)
		if err != nil {
			if err == zk.ErrNoNode {
				continue
			}
			return fmt.Errorf("failed to watch previous node: %w", err)
		}
		if !exists {
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errors.New("timeout waiting for lock")
		}
		select {
		case event := <-eventChan:
			if event.Type == zk.EventNodeDeleted {
				continue
			}
		case <-time.After(remaining):
			return errors.New("timeout waiting for lock")
		}
	}
}

// Unlock 释放锁。节点已不存在时视为已释放。
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return errors.New("no lock to unlock")
	}
	err := l.conn.Delete(l.lockNode, -1)
	if err != nil && err != zk.ErrNoNode {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	l.lockNode = ""
	return nil
}
